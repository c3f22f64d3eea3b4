package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"lifevault/internal/database"
	"lifevault/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// FinancialGoalRequest carries a savings goal create or update
type FinancialGoalRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description"`
	TargetAmount float64 `json:"targetAmount" binding:"required,gt=0"`
	Currency     string  `json:"currency"`
	TargetDate   string  `json:"targetDate"`
	Color        string  `json:"color"`
	Icon         string  `json:"icon"`
}

// GoalContributionRequest carries one deposit toward a goal
type GoalContributionRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// ListGoals returns the caller's savings goals
func ListGoals(c *gin.Context) {
	db := database.GetDB()
	var goals []models.FinancialGoal
	if err := db.Where("user_id = ?", currentUserID(c)).
		Order("created_at ASC").
		Find(&goals).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load goals", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "goals": goals})
}

// CreateGoal adds a savings goal
func CreateGoal(c *gin.Context) {
	var req FinancialGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	goal := models.FinancialGoal{
		UserID:       currentUserID(c),
		Title:        req.Title,
		Description:  req.Description,
		TargetAmount: req.TargetAmount,
		TargetDate:   parseDateField(req.TargetDate),
		Color:        req.Color,
		Icon:         req.Icon,
	}
	if req.Currency != "" {
		goal.Currency = req.Currency
	}

	db := database.GetDB()
	if err := db.Create(&goal).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create goal", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "goal": goal})
}

func resolveGoalForUser(c *gin.Context, goalID string) (*models.FinancialGoal, bool) {
	db := database.GetDB()
	var goal models.FinancialGoal
	if err := db.Where("id = ? AND user_id = ?", goalID, currentUserID(c)).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Goal not found", err)
			return nil, false
		}
		handleError(c, http.StatusInternalServerError, "Failed to load goal", err)
		return nil, false
	}
	return &goal, true
}

// UpdateGoal edits a savings goal
func UpdateGoal(c *gin.Context) {
	goal, ok := resolveGoalForUser(c, c.Param("id"))
	if !ok {
		return
	}

	var req FinancialGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	goal.Title = req.Title
	goal.Description = req.Description
	goal.TargetAmount = req.TargetAmount
	goal.TargetDate = parseDateField(req.TargetDate)
	goal.Color = req.Color
	goal.Icon = req.Icon
	if req.Currency != "" {
		goal.Currency = req.Currency
	}

	// Raising the target can un-complete a goal
	if goal.CurrentAmount < goal.TargetAmount {
		goal.Completed = false
		goal.CompletedAt = nil
	}

	db := database.GetDB()
	if err := db.Save(goal).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update goal", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "goal": goal})
}

// ContributeToGoal deposits toward a goal, completing it when the target
// is reached
func ContributeToGoal(c *gin.Context) {
	goal, ok := resolveGoalForUser(c, c.Param("id"))
	if !ok {
		return
	}

	var req GoalContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	goal.CurrentAmount += req.Amount
	if goal.CurrentAmount >= goal.TargetAmount && !goal.Completed {
		now := time.Now()
		goal.Completed = true
		goal.CompletedAt = &now
	}

	db := database.GetDB()
	if err := db.Save(goal).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to record contribution", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "goal": goal})
}

// DeleteGoal removes a savings goal
func DeleteGoal(c *gin.Context) {
	db := database.GetDB()
	result := db.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).
		Delete(&models.FinancialGoal{})
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete goal", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		handleError(c, http.StatusNotFound, "Goal not found", gorm.ErrRecordNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "goal deleted"})
}

// ExpenseScheduleRequest carries a planned payment create or update
type ExpenseScheduleRequest struct {
	Title     string  `json:"title" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Currency  string  `json:"currency"`
	StartDate string  `json:"startDate" binding:"required"`
	EndDate   string  `json:"endDate"`
	Frequency string  `json:"frequency"`
}

// ListSchedules returns the caller's planned payments
func ListSchedules(c *gin.Context) {
	db := database.GetDB()
	query := db.Where("user_id = ?", currentUserID(c))
	if c.Query("active") == "true" {
		query = query.Where("active = ?", true)
	}

	var schedules []models.ExpenseSchedule
	if err := query.Order("next_run_at ASC").Find(&schedules).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load schedules", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "schedules": schedules})
}

// CreateSchedule adds a planned payment; the first run is its start date
func CreateSchedule(c *gin.Context) {
	var req ExpenseScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	startDate := parseDateField(req.StartDate)
	if startDate == nil {
		handleError(c, http.StatusBadRequest, "startDate is invalid", errors.New("bad startDate"))
		return
	}

	schedule := models.ExpenseSchedule{
		UserID:    currentUserID(c),
		Title:     req.Title,
		Amount:    req.Amount,
		StartDate: *startDate,
		EndDate:   parseDateField(req.EndDate),
		Frequency: models.NormalizeExpenseFrequency(req.Frequency),
		NextRunAt: startDate,
		Active:    true,
	}
	if req.Currency != "" {
		schedule.Currency = req.Currency
	}

	db := database.GetDB()
	if err := db.Create(&schedule).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create schedule", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "schedule": schedule})
}

// PaySchedule materializes the schedule's next run as an expense and rolls
// the schedule forward; one-time schedules deactivate
func PaySchedule(c *gin.Context) {
	db := database.GetDB()
	var schedule models.ExpenseSchedule
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).
		First(&schedule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Schedule not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}

	if !schedule.Active || schedule.NextRunAt == nil {
		handleError(c, http.StatusBadRequest, "Schedule has no pending payment", errors.New("schedule inactive or exhausted"))
		return
	}

	runDate := *schedule.NextRunAt
	expense := models.Expense{
		UserID:      schedule.UserID,
		Title:       schedule.Title,
		Amount:      schedule.Amount,
		Currency:    schedule.Currency,
		ExpenseDate: runDate,
		Notes:       "Paid from schedule " + schedule.Title,
		Frequency:   schedule.Frequency,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&expense).Error; err != nil {
			return err
		}
		if err := budgetService.ApplyExpense(tx, &expense); err != nil {
			return err
		}

		now := time.Now()
		schedule.ExpenseID = &expense.ID
		schedule.LastRunAt = &now

		if schedule.Frequency == models.FrequencyOneTime {
			schedule.Active = false
			schedule.NextRunAt = nil
		} else {
			next := models.AddInterval(runDate, schedule.Frequency)
			if schedule.EndDate != nil && next.After(*schedule.EndDate) {
				schedule.Active = false
				schedule.NextRunAt = nil
			} else {
				schedule.NextRunAt = &next
			}
		}
		return tx.Save(&schedule).Error
	})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to pay schedule", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "schedule": schedule, "expense": expense})
}

// DeleteSchedule removes a planned payment
func DeleteSchedule(c *gin.Context) {
	db := database.GetDB()
	result := db.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).
		Delete(&models.ExpenseSchedule{})
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete schedule", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		handleError(c, http.StatusNotFound, "Schedule not found", gorm.ErrRecordNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "schedule deleted"})
}

// SubscriptionRequest carries a subscription create or update
type SubscriptionRequest struct {
	Title           string  `json:"title" binding:"required"`
	Description     string  `json:"description"`
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	Currency        string  `json:"currency"`
	BillingCycle    string  `json:"billingCycle"`
	NextBillingDate string  `json:"nextBillingDate"`
	CategoryID      *string `json:"categoryId"`
	Vendor          string  `json:"vendor"`
	PaymentMethod   string  `json:"paymentMethod"`
	PaymentAccount  string  `json:"paymentAccount"`
	AutoPay         bool    `json:"autoPay"`
	Notes           string  `json:"notes"`
}

// ListSubscriptions returns the caller's subscriptions
func ListSubscriptions(c *gin.Context) {
	db := database.GetDB()
	query := db.Where("user_id = ?", currentUserID(c))
	if c.Query("active") == "true" {
		query = query.Where("active = ?", true)
	}

	var subscriptions []models.Subscription
	if err := query.Order("next_billing_date ASC").Find(&subscriptions).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load subscriptions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "subscriptions": subscriptions})
}

func applySubscriptionRequest(sub *models.Subscription, req *SubscriptionRequest) {
	sub.Title = req.Title
	sub.Description = req.Description
	sub.Amount = req.Amount
	sub.BillingCycle = models.NormalizeExpenseFrequency(req.BillingCycle)
	sub.NextBillingDate = parseDateField(req.NextBillingDate)
	sub.CategoryID = req.CategoryID
	sub.Vendor = req.Vendor
	sub.PaymentMethod = models.NormalizePaymentMethod(req.PaymentMethod)
	sub.PaymentAccount = req.PaymentAccount
	sub.AutoPay = req.AutoPay
	sub.Notes = req.Notes
	if req.Currency != "" {
		sub.Currency = req.Currency
	}
	// Subscriptions always recur; a one-time cycle makes no sense here
	if sub.BillingCycle == models.FrequencyOneTime {
		sub.BillingCycle = models.FrequencyMonthly
	}
}

// CreateSubscription adds a recurring billed service
func CreateSubscription(c *gin.Context) {
	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}
	if !resolveCategoryForUser(c, req.CategoryID) {
		return
	}

	subscription := models.Subscription{UserID: currentUserID(c), Active: true}
	applySubscriptionRequest(&subscription, &req)

	db := database.GetDB()
	if err := db.Create(&subscription).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create subscription", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "subscription": subscription})
}

func resolveSubscriptionForUser(c *gin.Context, subID string) (*models.Subscription, bool) {
	db := database.GetDB()
	var subscription models.Subscription
	if err := db.Where("id = ? AND user_id = ?", subID, currentUserID(c)).
		First(&subscription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Subscription not found", err)
			return nil, false
		}
		handleError(c, http.StatusInternalServerError, "Failed to load subscription", err)
		return nil, false
	}
	return &subscription, true
}

// UpdateSubscription edits a subscription
func UpdateSubscription(c *gin.Context) {
	subscription, ok := resolveSubscriptionForUser(c, c.Param("id"))
	if !ok {
		return
	}

	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}
	if !resolveCategoryForUser(c, req.CategoryID) {
		return
	}

	applySubscriptionRequest(subscription, &req)

	db := database.GetDB()
	if err := db.Save(subscription).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update subscription", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "subscription": subscription})
}

// PaySubscription records a billing cycle as an expense and advances the
// next billing date
func PaySubscription(c *gin.Context) {
	subscription, ok := resolveSubscriptionForUser(c, c.Param("id"))
	if !ok {
		return
	}

	if !subscription.Active {
		handleError(c, http.StatusBadRequest, "Subscription is not active", errors.New("inactive subscription"))
		return
	}

	billingDate := time.Now()
	if subscription.NextBillingDate != nil {
		billingDate = *subscription.NextBillingDate
	}

	expense := models.Expense{
		UserID:         subscription.UserID,
		Title:          subscription.Title,
		Amount:         subscription.Amount,
		Currency:       subscription.Currency,
		ExpenseDate:    billingDate,
		CategoryID:     subscription.CategoryID,
		PaymentMethod:  subscription.PaymentMethod,
		PaymentAccount: subscription.PaymentAccount,
		Vendor:         subscription.Vendor,
		Notes:          "Subscription payment: " + subscription.Title,
		IsRecurring:    true,
		Frequency:      subscription.BillingCycle,
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&expense).Error; err != nil {
			return err
		}
		if err := budgetService.ApplyExpense(tx, &expense); err != nil {
			return err
		}

		now := time.Now()
		next := models.AddInterval(billingDate, subscription.BillingCycle)
		subscription.LastBilledAt = &now
		subscription.NextBillingDate = &next
		if subscription.CancelAt != nil && next.After(*subscription.CancelAt) {
			subscription.Active = false
		}
		return tx.Save(subscription).Error
	})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to pay subscription", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "subscription": subscription, "expense": expense})
}

// CancelSubscription deactivates a subscription
func CancelSubscription(c *gin.Context) {
	subscription, ok := resolveSubscriptionForUser(c, c.Param("id"))
	if !ok {
		return
	}

	now := time.Now()
	subscription.Active = false
	subscription.CancelAt = &now

	db := database.GetDB()
	if err := db.Save(subscription).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to cancel subscription", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "subscription": subscription})
}

// DeleteSubscription removes a subscription
func DeleteSubscription(c *gin.Context) {
	db := database.GetDB()
	result := db.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).
		Delete(&models.Subscription{})
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete subscription", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		handleError(c, http.StatusNotFound, "Subscription not found", gorm.ErrRecordNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "subscription deleted"})
}

// MoneyAccountRequest carries an account create or update
type MoneyAccountRequest struct {
	Name        string  `json:"name" binding:"required"`
	Institution string  `json:"institution"`
	Type        string  `json:"type"`
	Currency    string  `json:"currency"`
	Balance     float64 `json:"balance"`
	IsDefault   bool    `json:"isDefault"`
	Notes       string  `json:"notes"`
}

// ListAccounts returns the caller's money accounts; archived accounts are
// hidden unless asked for
func ListAccounts(c *gin.Context) {
	db := database.GetDB()
	query := db.Where("user_id = ?", currentUserID(c))
	if c.Query("includeArchived") != "true" {
		query = query.Where("archived = ?", false)
	}

	var accounts []models.MoneyAccount
	if err := query.Order("archived ASC, created_at ASC").
		Find(&accounts).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load accounts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "accounts": accounts})
}

// CreateAccount adds a money account; making it default demotes the rest
func CreateAccount(c *gin.Context) {
	var req MoneyAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	account := models.MoneyAccount{
		UserID:      currentUserID(c),
		Name:        req.Name,
		Institution: req.Institution,
		Type:        req.Type,
		Balance:     req.Balance,
		IsDefault:   req.IsDefault,
		Notes:       req.Notes,
	}
	if req.Currency != "" {
		account.Currency = req.Currency
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if account.IsDefault {
			if err := tx.Model(&models.MoneyAccount{}).
				Where("user_id = ?", account.UserID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&account).Error
	})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create account", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "account": account})
}

func resolveAccountForUser(c *gin.Context, accountID string) (*models.MoneyAccount, bool) {
	db := database.GetDB()
	var account models.MoneyAccount
	if err := db.Where("id = ? AND user_id = ?", accountID, currentUserID(c)).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Account not found", err)
			return nil, false
		}
		handleError(c, http.StatusInternalServerError, "Failed to load account", err)
		return nil, false
	}
	return &account, true
}

// UpdateAccount edits a money account, keeping default exclusivity
func UpdateAccount(c *gin.Context) {
	account, ok := resolveAccountForUser(c, c.Param("id"))
	if !ok {
		return
	}

	var req MoneyAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	account.Name = req.Name
	account.Institution = req.Institution
	account.Type = req.Type
	account.Balance = req.Balance
	account.Notes = req.Notes
	if req.Currency != "" {
		account.Currency = req.Currency
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault && !account.IsDefault {
			if err := tx.Model(&models.MoneyAccount{}).
				Where("user_id = ?", account.UserID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		account.IsDefault = req.IsDefault
		return tx.Save(account).Error
	})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update account", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "account": account})
}

// ArchiveAccount hides an account without deleting its history
func ArchiveAccount(c *gin.Context) {
	account, ok := resolveAccountForUser(c, c.Param("id"))
	if !ok {
		return
	}

	account.Archived = true
	account.IsDefault = false

	db := database.GetDB()
	if err := db.Save(account).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to archive account", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "account": account})
}

// DeleteAccount removes a money account
func DeleteAccount(c *gin.Context) {
	db := database.GetDB()
	result := db.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).
		Delete(&models.MoneyAccount{})
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete account", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		handleError(c, http.StatusNotFound, "Account not found", gorm.ErrRecordNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "account deleted"})
}

// UserCurrencyRequest carries a tracked currency create or update
type UserCurrencyRequest struct {
	Code      string `json:"code" binding:"required"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	IsDefault bool   `json:"isDefault"`
}

// ListCurrencies returns the currencies the caller tracks
func ListCurrencies(c *gin.Context) {
	db := database.GetDB()
	var currencies []models.UserCurrency
	if err := db.Where("user_id = ?", currentUserID(c)).
		Order("is_default DESC, code ASC").
		Find(&currencies).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load currencies", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "currencies": currencies})
}

// CreateCurrency tracks a currency; marking it default also flips the
// user's preference record
func CreateCurrency(c *gin.Context) {
	var req UserCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	currency := models.UserCurrency{
		UserID:    currentUserID(c),
		Code:      strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:      req.Name,
		Symbol:    req.Symbol,
		IsDefault: req.IsDefault,
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if currency.IsDefault {
			if err := setDefaultCurrency(tx, currency.UserID, currency.Code); err != nil {
				return err
			}
		}
		return tx.Create(&currency).Error
	})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to add currency", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "currency": currency})
}

// setDefaultCurrency demotes other currencies and upserts the preference row
func setDefaultCurrency(tx *gorm.DB, userID, code string) error {
	if err := tx.Model(&models.UserCurrency{}).
		Where("user_id = ?", userID).
		Update("is_default", false).Error; err != nil {
		return err
	}

	var pref models.UserPreference
	err := tx.Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pref = models.UserPreference{UserID: userID, Currency: code}
		return tx.Create(&pref).Error
	}
	if err != nil {
		return err
	}
	pref.Currency = code
	return tx.Save(&pref).Error
}

// SetDefaultCurrency makes one tracked currency the default
func SetDefaultCurrency(c *gin.Context) {
	db := database.GetDB()
	var currency models.UserCurrency
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).
		First(&currency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Currency not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to load currency", err)
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := setDefaultCurrency(tx, currency.UserID, currency.Code); err != nil {
			return err
		}
		currency.IsDefault = true
		return tx.Save(&currency).Error
	})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to set default currency", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "currency": currency})
}

// DeleteCurrency stops tracking a currency
func DeleteCurrency(c *gin.Context) {
	db := database.GetDB()
	result := db.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).
		Delete(&models.UserCurrency{})
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete currency", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		handleError(c, http.StatusNotFound, "Currency not found", gorm.ErrRecordNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "currency deleted"})
}
