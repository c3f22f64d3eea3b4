package services

import (
	"fmt"
	"lifevault/internal/models"
	"time"

	"gorm.io/gorm"
)

// BudgetService keeps budget spent totals in step with expense writes
type BudgetService struct {
	db *gorm.DB
}

func NewBudgetService(db *gorm.DB) *BudgetService {
	return &BudgetService{db: db}
}

// BudgetsForExpense finds the user's active budgets whose window covers the
// expense date. An expense pinned to one budget adjusts only that budget;
// otherwise budgets with a category match only that category and budgets
// with no category match everything.
func (s *BudgetService) BudgetsForExpense(tx *gorm.DB, userID string, categoryID, budgetID *string, expenseDate time.Time) ([]models.Budget, error) {
	if budgetID != nil {
		var budget models.Budget
		err := tx.Where("id = ? AND user_id = ? AND active = ?", *budgetID, userID, true).
			First(&budget).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to load budget: %w", err)
		}
		if budget.StartDate.After(expenseDate) || budget.EndDate.Before(expenseDate) {
			return nil, nil
		}
		return []models.Budget{budget}, nil
	}

	query := tx.Where("user_id = ? AND active = ?", userID, true).
		Where("start_date <= ? AND end_date >= ?", expenseDate, expenseDate)

	if categoryID != nil {
		query = query.Where("category_id = ? OR category_id IS NULL", *categoryID)
	} else {
		query = query.Where("category_id IS NULL")
	}

	var budgets []models.Budget
	if err := query.Find(&budgets).Error; err != nil {
		return nil, fmt.Errorf("failed to load budgets: %w", err)
	}
	return budgets, nil
}

// ApplyExpense adds the expense amount to every matching budget's spent
// total inside the supplied transaction
func (s *BudgetService) ApplyExpense(tx *gorm.DB, expense *models.Expense) error {
	budgets, err := s.BudgetsForExpense(tx, expense.UserID, expense.CategoryID, expense.BudgetID, expense.ExpenseDate)
	if err != nil {
		return err
	}
	for _, budget := range budgets {
		if err := tx.Model(&models.Budget{}).
			Where("id = ?", budget.ID).
			Update("spent", gorm.Expr("spent + ?", expense.Amount)).Error; err != nil {
			return fmt.Errorf("failed to increment budget spent: %w", err)
		}
	}
	return nil
}

// RevertExpense subtracts the expense amount from matching budgets,
// clamping spent at zero
func (s *BudgetService) RevertExpense(tx *gorm.DB, expense *models.Expense) error {
	budgets, err := s.BudgetsForExpense(tx, expense.UserID, expense.CategoryID, expense.BudgetID, expense.ExpenseDate)
	if err != nil {
		return err
	}
	for _, budget := range budgets {
		if err := tx.Model(&models.Budget{}).
			Where("id = ?", budget.ID).
			Update("spent", gorm.Expr("GREATEST(spent - ?, 0)", expense.Amount)).Error; err != nil {
			return fmt.Errorf("failed to decrement budget spent: %w", err)
		}
	}
	return nil
}
