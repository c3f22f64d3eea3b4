package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ExpenseFrequency describes how often a recurring charge repeats
type ExpenseFrequency string

const (
	FrequencyOneTime ExpenseFrequency = "ONE_TIME"
	FrequencyWeekly  ExpenseFrequency = "WEEKLY"
	FrequencyMonthly ExpenseFrequency = "MONTHLY"
	FrequencyYearly  ExpenseFrequency = "YEARLY"
)

// PaymentMethod describes how an expense was paid
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentEWallet      PaymentMethod = "E_WALLET"
	PaymentOther        PaymentMethod = "OTHER"
)

var enumSeparators = regexp.MustCompile(`[\s-]+`)

// NormalizeExpenseFrequency upper-snakes a loose input, defaulting to ONE_TIME
func NormalizeExpenseFrequency(value string) ExpenseFrequency {
	normalized := enumSeparators.ReplaceAllString(strings.ToUpper(strings.TrimSpace(value)), "_")
	switch ExpenseFrequency(normalized) {
	case FrequencyOneTime, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return ExpenseFrequency(normalized)
	}
	return FrequencyOneTime
}

// NormalizePaymentMethod upper-snakes a loose input, defaulting to CASH
func NormalizePaymentMethod(value string) PaymentMethod {
	normalized := enumSeparators.ReplaceAllString(strings.ToUpper(strings.TrimSpace(value)), "_")
	switch PaymentMethod(normalized) {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentBankTransfer, PaymentEWallet, PaymentOther:
		return PaymentMethod(normalized)
	}
	return PaymentCash
}

// AddInterval advances a date by one billing interval. Anything that is not
// weekly or yearly advances by a month, matching the recurring-charge rules.
func AddInterval(date time.Time, freq ExpenseFrequency) time.Time {
	switch freq {
	case FrequencyWeekly:
		return date.AddDate(0, 0, 7)
	case FrequencyYearly:
		return date.AddDate(1, 0, 0)
	default:
		return date.AddDate(0, 1, 0)
	}
}

// Expense is a single spend entry owned by a user
type Expense struct {
	ID             string                      `gorm:"primaryKey;size:36" json:"id"`
	UserID         string                      `gorm:"size:36;not null;index" json:"userId"`
	Title          string                      `gorm:"size:200;not null" json:"title"`
	Description    string                      `json:"description"`
	Amount         float64                     `gorm:"not null" json:"amount"`
	Currency       string                      `gorm:"size:10;not null;default:USD" json:"currency"`
	ExpenseDate    time.Time                   `gorm:"not null;index" json:"expenseDate"`
	CategoryID     *string                     `gorm:"size:36;index" json:"categoryId"`
	BudgetID       *string                     `gorm:"size:36;index" json:"budgetId"`
	Subcategory    string                      `gorm:"size:80" json:"subcategory"`
	Tags           datatypes.JSONSlice[string] `json:"tags"`
	PaymentMethod  PaymentMethod               `gorm:"size:20;not null;default:CASH" json:"paymentMethod"`
	PaymentAccount string                      `gorm:"size:120" json:"paymentAccount"`
	Vendor         string                      `gorm:"size:160" json:"vendor"`
	Location       string                      `gorm:"size:200" json:"location"`
	ReceiptURL     string                      `json:"receiptUrl"`
	Notes          string                      `json:"notes"`
	IsRecurring    bool                        `gorm:"not null;default:false" json:"isRecurring"`
	Frequency      ExpenseFrequency            `gorm:"size:20;not null;default:ONE_TIME" json:"frequency"`
	RecurringUntil *time.Time                  `json:"recurringUntil"`
	CreatedAt      time.Time                   `gorm:"not null" json:"createdAt"`
	UpdatedAt      time.Time                   `gorm:"not null" json:"updatedAt"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ExpenseDate.IsZero() {
		e.ExpenseDate = time.Now()
	}
	return nil
}

// TableName specifies the table name for the Expense model
func (Expense) TableName() string {
	return "expense"
}

// ExpenseCategory is a user-defined spending category
type ExpenseCategory struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"userId"`
	Name      string    `gorm:"size:80;not null" json:"name"`
	Color     string    `gorm:"size:20" json:"color"`
	Icon      string    `gorm:"size:40" json:"icon"`
	IsDefault bool      `gorm:"not null;default:false" json:"isDefault"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (c *ExpenseCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the ExpenseCategory model
func (ExpenseCategory) TableName() string {
	return "expense_category"
}

// Budget caps spending over a date window, optionally for one category.
// Spent is maintained incrementally as expenses are created and deleted.
type Budget struct {
	ID             string           `gorm:"primaryKey;size:36" json:"id"`
	UserID         string           `gorm:"size:36;not null;index" json:"userId"`
	Name           string           `gorm:"size:120;not null" json:"name"`
	Amount         float64          `gorm:"not null" json:"amount"`
	Currency       string           `gorm:"size:10;not null;default:USD" json:"currency"`
	StartDate      time.Time        `gorm:"not null;index" json:"startDate"`
	EndDate        time.Time        `gorm:"not null;index" json:"endDate"`
	CategoryID     *string          `gorm:"size:36;index" json:"categoryId"`
	Spent          float64          `gorm:"not null;default:0" json:"spent"`
	AlertThreshold *float64         `json:"alertThreshold"`
	AlertEnabled   bool             `gorm:"not null;default:true" json:"alertEnabled"`
	Active         bool             `gorm:"not null;default:true" json:"active"`
	Category       *ExpenseCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt      time.Time        `gorm:"not null" json:"createdAt"`
	UpdatedAt      time.Time        `gorm:"not null" json:"updatedAt"`
}

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the Budget model
func (Budget) TableName() string {
	return "budget"
}

// FinancialGoal is a savings target the user works toward
type FinancialGoal struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	UserID        string     `gorm:"size:36;not null;index" json:"userId"`
	Title         string     `gorm:"size:160;not null" json:"title"`
	Description   string     `json:"description"`
	TargetAmount  float64    `gorm:"not null" json:"targetAmount"`
	CurrentAmount float64    `gorm:"not null;default:0" json:"currentAmount"`
	Currency      string     `gorm:"size:10;not null;default:USD" json:"currency"`
	TargetDate    *time.Time `json:"targetDate"`
	Color         string     `gorm:"size:20" json:"color"`
	Icon          string     `gorm:"size:40" json:"icon"`
	Completed     bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt   *time.Time `json:"completedAt"`
	CreatedAt     time.Time  `gorm:"not null;index" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updatedAt"`
}

func (g *FinancialGoal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the FinancialGoal model
func (FinancialGoal) TableName() string {
	return "financial_goal"
}

// ExpenseSchedule is an upcoming planned payment. Paying it materializes an
// Expense and rolls the schedule forward unless it is one-time.
type ExpenseSchedule struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id"`
	UserID    string           `gorm:"size:36;not null;index" json:"userId"`
	ExpenseID *string          `gorm:"size:36" json:"expenseId"`
	Title     string           `gorm:"size:200;not null" json:"title"`
	Amount    float64          `gorm:"not null" json:"amount"`
	Currency  string           `gorm:"size:10;not null;default:USD" json:"currency"`
	StartDate time.Time        `gorm:"not null" json:"startDate"`
	EndDate   *time.Time       `json:"endDate"`
	Frequency ExpenseFrequency `gorm:"size:20;not null;default:MONTHLY" json:"frequency"`
	NextRunAt *time.Time       `json:"nextRunAt"`
	LastRunAt *time.Time       `json:"lastRunAt"`
	Active    bool             `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time        `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time        `gorm:"not null" json:"updatedAt"`
}

func (s *ExpenseSchedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the ExpenseSchedule model
func (ExpenseSchedule) TableName() string {
	return "expense_schedule"
}

// Subscription is a recurring billed service; paying it creates an Expense
// and advances the next billing date
type Subscription struct {
	ID              string           `gorm:"primaryKey;size:36" json:"id"`
	UserID          string           `gorm:"size:36;not null;index" json:"userId"`
	Title           string           `gorm:"size:200;not null" json:"title"`
	Description     string           `json:"description"`
	Amount          float64          `gorm:"not null" json:"amount"`
	Currency        string           `gorm:"size:10;not null;default:USD" json:"currency"`
	BillingCycle    ExpenseFrequency `gorm:"size:20;not null;default:MONTHLY" json:"billingCycle"`
	NextBillingDate *time.Time       `gorm:"index" json:"nextBillingDate"`
	LastBilledAt    *time.Time       `json:"lastBilledAt"`
	CategoryID      *string          `gorm:"size:36;index" json:"categoryId"`
	Vendor          string           `gorm:"size:160" json:"vendor"`
	PaymentMethod   PaymentMethod    `gorm:"size:20;not null;default:CASH" json:"paymentMethod"`
	PaymentAccount  string           `gorm:"size:120" json:"paymentAccount"`
	Active          bool             `gorm:"not null;default:true" json:"active"`
	AutoPay         bool             `gorm:"not null;default:false" json:"autoPay"`
	CancelAt        *time.Time       `json:"cancelAt"`
	Notes           string           `json:"notes"`
	CreatedAt       time.Time        `gorm:"not null;index" json:"createdAt"`
	UpdatedAt       time.Time        `gorm:"not null" json:"updatedAt"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the Subscription model
func (Subscription) TableName() string {
	return "subscription"
}

// MoneyAccount is a cash, bank or wallet account; at most one per user is the
// default
type MoneyAccount struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;not null;index" json:"userId"`
	Name        string    `gorm:"size:120;not null" json:"name"`
	Institution string    `gorm:"size:120" json:"institution"`
	Type        string    `gorm:"size:40" json:"type"`
	Currency    string    `gorm:"size:10;not null;default:PHP" json:"currency"`
	Balance     float64   `gorm:"not null;default:0" json:"balance"`
	IsDefault   bool      `gorm:"not null;default:false" json:"isDefault"`
	Notes       string    `json:"notes"`
	Archived    bool      `gorm:"not null;default:false" json:"archived"`
	CreatedAt   time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

func (a *MoneyAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the MoneyAccount model
func (MoneyAccount) TableName() string {
	return "money_account"
}

// UserCurrency is a currency the user tracks; the default also drives the
// preference record
type UserCurrency struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"userId"`
	Code      string    `gorm:"size:10;not null" json:"code"`
	Name      string    `gorm:"size:60" json:"name"`
	Symbol    string    `gorm:"size:10" json:"symbol"`
	IsDefault bool      `gorm:"not null;default:false" json:"isDefault"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (c *UserCurrency) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the UserCurrency model
func (UserCurrency) TableName() string {
	return "user_currency"
}

// UserPreference stores per-user settings touched by default-currency flips
type UserPreference struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex" json:"userId"`
	Currency  string    `gorm:"size:10;not null;default:USD" json:"currency"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (p *UserPreference) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the UserPreference model
func (UserPreference) TableName() string {
	return "user_preference"
}
