package handlers

import (
	"errors"
	"net/http"
	"time"

	"lifevault/internal/database"
	"lifevault/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ExpenseRequest carries an expense create or update
type ExpenseRequest struct {
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description"`
	Amount         float64  `json:"amount" binding:"required,gt=0"`
	Currency       string   `json:"currency"`
	ExpenseDate    string   `json:"expenseDate"`
	CategoryID     *string  `json:"categoryId"`
	BudgetID       *string  `json:"budgetId"`
	Subcategory    string   `json:"subcategory"`
	Tags           []string `json:"tags"`
	PaymentMethod  string   `json:"paymentMethod"`
	PaymentAccount string   `json:"paymentAccount"`
	Vendor         string   `json:"vendor"`
	Location       string   `json:"location"`
	ReceiptURL     string   `json:"receiptUrl"`
	Notes          string   `json:"notes"`
	IsRecurring    bool     `json:"isRecurring"`
	Frequency      string   `json:"frequency"`
	RecurringUntil string   `json:"recurringUntil"`
}

// BudgetRequest carries a budget create or update
type BudgetRequest struct {
	Name           string   `json:"name" binding:"required"`
	Amount         float64  `json:"amount" binding:"required,gt=0"`
	Currency       string   `json:"currency"`
	StartDate      string   `json:"startDate" binding:"required"`
	EndDate        string   `json:"endDate" binding:"required"`
	CategoryID     *string  `json:"categoryId"`
	AlertThreshold *float64 `json:"alertThreshold"`
	AlertEnabled   *bool    `json:"alertEnabled"`
}

// resolveCategoryForUser confirms the category id belongs to the caller
func resolveCategoryForUser(c *gin.Context, categoryID *string) bool {
	if categoryID == nil {
		return true
	}
	db := database.GetDB()
	var count int64
	db.Model(&models.ExpenseCategory{}).
		Where("id = ? AND user_id = ?", *categoryID, currentUserID(c)).
		Count(&count)
	if count == 0 {
		handleError(c, http.StatusNotFound, "Category not found", gorm.ErrRecordNotFound)
		return false
	}
	return true
}

// validateBudgetLink checks a pinned budget exists for the caller and that
// the expense date falls inside its window
func validateBudgetLink(c *gin.Context, budgetID *string, expenseDate time.Time) bool {
	if budgetID == nil {
		return true
	}
	db := database.GetDB()
	var budget models.Budget
	if err := db.Where("id = ? AND user_id = ?", *budgetID, currentUserID(c)).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Budget not found", err)
			return false
		}
		handleError(c, http.StatusInternalServerError, "Failed to load budget", err)
		return false
	}
	if budget.StartDate.After(expenseDate) || budget.EndDate.Before(expenseDate) {
		handleError(c, http.StatusBadRequest, "Expense date is outside the selected budget window", errors.New("expense date outside budget window"))
		return false
	}
	return true
}

// ListExpenses returns the caller's expenses, optionally windowed by
// from/to dates and filtered by category or recurrence
func ListExpenses(c *gin.Context) {
	db := database.GetDB()
	query := db.Where("user_id = ?", currentUserID(c))

	if from := parseDateField(c.Query("from")); from != nil {
		query = query.Where("expense_date >= ?", *from)
	}
	if to := parseDateField(c.Query("to")); to != nil {
		query = query.Where("expense_date <= ?", *to)
	}
	if categoryID := c.Query("categoryId"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if isRecurring := c.Query("isRecurring"); isRecurring != "" {
		query = query.Where("is_recurring = ?", isRecurring == "true")
	}

	var expenses []models.Expense
	if err := query.Order("expense_date DESC").Find(&expenses).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load expenses", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "expenses": expenses})
}

func expenseFromRequest(userID string, req *ExpenseRequest) models.Expense {
	expense := models.Expense{
		UserID:         userID,
		Title:          req.Title,
		Description:    req.Description,
		Amount:         req.Amount,
		CategoryID:     req.CategoryID,
		BudgetID:       req.BudgetID,
		Subcategory:    req.Subcategory,
		Tags:           datatypes.NewJSONSlice(req.Tags),
		PaymentMethod:  models.NormalizePaymentMethod(req.PaymentMethod),
		PaymentAccount: req.PaymentAccount,
		Vendor:         req.Vendor,
		Location:       req.Location,
		ReceiptURL:     req.ReceiptURL,
		Notes:          req.Notes,
		IsRecurring:    req.IsRecurring,
		Frequency:      models.NormalizeExpenseFrequency(req.Frequency),
		RecurringUntil: parseDateField(req.RecurringUntil),
	}
	if req.Currency != "" {
		expense.Currency = req.Currency
	}
	if expenseDate := parseDateField(req.ExpenseDate); expenseDate != nil {
		expense.ExpenseDate = *expenseDate
	} else {
		expense.ExpenseDate = time.Now()
	}
	return expense
}

// CreateExpense records an expense and rolls its amount into every
// matching budget in one transaction
func CreateExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}
	if !resolveCategoryForUser(c, req.CategoryID) {
		return
	}

	expense := expenseFromRequest(currentUserID(c), &req)
	if !validateBudgetLink(c, expense.BudgetID, expense.ExpenseDate) {
		return
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&expense).Error; err != nil {
			return err
		}
		return budgetService.ApplyExpense(tx, &expense)
	})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create expense", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "expense": expense})
}

// UpdateExpense edits an expense, reverting its old amount from budgets
// and applying the new one
func UpdateExpense(c *gin.Context) {
	db := database.GetDB()
	var expense models.Expense
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).
		First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Expense not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to load expense", err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}
	if !resolveCategoryForUser(c, req.CategoryID) {
		return
	}

	updated := expenseFromRequest(expense.UserID, &req)
	updated.ID = expense.ID
	updated.CreatedAt = expense.CreatedAt
	if !validateBudgetLink(c, updated.BudgetID, updated.ExpenseDate) {
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := budgetService.RevertExpense(tx, &expense); err != nil {
			return err
		}
		if err := tx.Save(&updated).Error; err != nil {
			return err
		}
		return budgetService.ApplyExpense(tx, &updated)
	})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update expense", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "expense": updated})
}

// DeleteExpense removes an expense and backs its amount out of budgets
func DeleteExpense(c *gin.Context) {
	db := database.GetDB()
	var expense models.Expense
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).
		First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Expense not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to load expense", err)
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := budgetService.RevertExpense(tx, &expense); err != nil {
			return err
		}
		return tx.Delete(&expense).Error
	})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete expense", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "expense deleted"})
}

// ListCategories returns the caller's expense categories
func ListCategories(c *gin.Context) {
	db := database.GetDB()
	var categories []models.ExpenseCategory
	if err := db.Where("user_id = ?", currentUserID(c)).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load categories", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "categories": categories})
}

// CategoryRequest carries a category create or update
type CategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// CreateCategory adds an expense category
func CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	category := models.ExpenseCategory{
		UserID: currentUserID(c),
		Name:   req.Name,
		Color:  req.Color,
		Icon:   req.Icon,
	}

	db := database.GetDB()
	if err := db.Create(&category).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create category", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "category": category})
}

// UpdateCategory edits an expense category
func UpdateCategory(c *gin.Context) {
	db := database.GetDB()
	var category models.ExpenseCategory
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Category not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to load category", err)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	category.Name = req.Name
	category.Color = req.Color
	category.Icon = req.Icon
	if err := db.Save(&category).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update category", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "category": category})
}

// DeleteCategory removes a category, detaching its expenses
func DeleteCategory(c *gin.Context) {
	db := database.GetDB()
	var category models.ExpenseCategory
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Category not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to load category", err)
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Expense{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete category", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "category deleted"})
}

// ListBudgets returns the caller's budgets with categories preloaded
func ListBudgets(c *gin.Context) {
	db := database.GetDB()
	query := db.Preload("Category").Where("user_id = ?", currentUserID(c))
	if c.Query("active") == "true" {
		query = query.Where("active = ?", true)
	}

	var budgets []models.Budget
	if err := query.Order("start_date DESC").Find(&budgets).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load budgets", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "budgets": budgets})
}

// CreateBudget adds a budget with its spent total seeded from existing
// expenses in the window
func CreateBudget(c *gin.Context) {
	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}
	if !resolveCategoryForUser(c, req.CategoryID) {
		return
	}

	startDate := parseDateField(req.StartDate)
	endDate := parseDateField(req.EndDate)
	if startDate == nil || endDate == nil || endDate.Before(*startDate) {
		handleError(c, http.StatusBadRequest, "Budget window is invalid", errors.New("bad startDate/endDate"))
		return
	}

	budget := models.Budget{
		UserID:         currentUserID(c),
		Name:           req.Name,
		Amount:         req.Amount,
		StartDate:      *startDate,
		EndDate:        *endDate,
		CategoryID:     req.CategoryID,
		AlertThreshold: req.AlertThreshold,
		AlertEnabled:   true,
		Active:         true,
	}
	if req.Currency != "" {
		budget.Currency = req.Currency
	}
	if req.AlertEnabled != nil {
		budget.AlertEnabled = *req.AlertEnabled
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		// Seed spent from expenses already inside the window
		spentQuery := tx.Model(&models.Expense{}).
			Where("user_id = ? AND expense_date BETWEEN ? AND ?", budget.UserID, budget.StartDate, budget.EndDate)
		if budget.CategoryID != nil {
			spentQuery = spentQuery.Where("category_id = ?", *budget.CategoryID)
		}
		var spent *float64
		if err := spentQuery.Select("SUM(amount)").Scan(&spent).Error; err != nil {
			return err
		}
		if spent != nil {
			budget.Spent = *spent
		}
		return tx.Create(&budget).Error
	})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create budget", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "budget": budget})
}

// UpdateBudget edits a budget; window or category changes recompute spent
func UpdateBudget(c *gin.Context) {
	db := database.GetDB()
	var budget models.Budget
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Budget not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to load budget", err)
		return
	}

	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}
	if !resolveCategoryForUser(c, req.CategoryID) {
		return
	}

	startDate := parseDateField(req.StartDate)
	endDate := parseDateField(req.EndDate)
	if startDate == nil || endDate == nil || endDate.Before(*startDate) {
		handleError(c, http.StatusBadRequest, "Budget window is invalid", errors.New("bad startDate/endDate"))
		return
	}

	budget.Name = req.Name
	budget.Amount = req.Amount
	budget.StartDate = *startDate
	budget.EndDate = *endDate
	budget.CategoryID = req.CategoryID
	budget.AlertThreshold = req.AlertThreshold
	if req.Currency != "" {
		budget.Currency = req.Currency
	}
	if req.AlertEnabled != nil {
		budget.AlertEnabled = *req.AlertEnabled
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		spentQuery := tx.Model(&models.Expense{}).
			Where("user_id = ? AND expense_date BETWEEN ? AND ?", budget.UserID, budget.StartDate, budget.EndDate)
		if budget.CategoryID != nil {
			spentQuery = spentQuery.Where("category_id = ?", *budget.CategoryID)
		}
		var spent *float64
		if err := spentQuery.Select("SUM(amount)").Scan(&spent).Error; err != nil {
			return err
		}
		budget.Spent = 0
		if spent != nil {
			budget.Spent = *spent
		}
		return tx.Save(&budget).Error
	})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update budget", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "budget": budget})
}

// DeleteBudget removes a budget
func DeleteBudget(c *gin.Context) {
	db := database.GetDB()
	result := db.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).
		Delete(&models.Budget{})
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete budget", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		handleError(c, http.StatusNotFound, "Budget not found", gorm.ErrRecordNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "budget deleted"})
}

// BudgetSummary is one row of the budgets overview
type BudgetSummary struct {
	models.Budget
	Remaining   float64 `json:"remaining"`
	PercentUsed float64 `json:"percentUsed"`
	OverBudget  bool    `json:"overBudget"`
	AlertFired  bool    `json:"alertFired"`
}

// GetBudgetSummary reports each active budget's consumption
func GetBudgetSummary(c *gin.Context) {
	db := database.GetDB()
	var budgets []models.Budget
	if err := db.Preload("Category").
		Where("user_id = ? AND active = ?", currentUserID(c), true).
		Order("start_date DESC").
		Find(&budgets).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load budgets", err)
		return
	}

	summaries := make([]BudgetSummary, 0, len(budgets))
	for _, budget := range budgets {
		summary := BudgetSummary{Budget: budget}
		summary.Remaining = budget.Amount - budget.Spent
		if budget.Amount > 0 {
			summary.PercentUsed = budget.Spent / budget.Amount * 100
		}
		summary.OverBudget = budget.Spent > budget.Amount
		if budget.AlertEnabled && budget.AlertThreshold != nil {
			summary.AlertFired = summary.PercentUsed >= *budget.AlertThreshold
		}
		summaries = append(summaries, summary)
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "budgets": summaries})
}
