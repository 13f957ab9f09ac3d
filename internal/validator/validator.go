// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"budgetex/internal/budget"
	"budgetex/internal/period"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("view_mode", validateViewMode)
		_ = v.RegisterValidation("period_kind", validatePeriodKind)
		_ = v.RegisterValidation("period_id", validatePeriodID)
		_ = v.RegisterValidation("allocation_kind", validateAllocationKind)
		_ = v.RegisterValidation("category_group", validateCategoryGroup)
	}
}

func validateViewMode(fl validator.FieldLevel) bool {
	return budget.ViewMode(fl.Field().String()).Valid()
}

func validatePeriodKind(fl validator.FieldLevel) bool {
	return period.Kind(fl.Field().String()).Valid()
}

func validatePeriodID(fl validator.FieldLevel) bool {
	_, err := period.ParseID(fl.Field().String())
	return err == nil
}

func validateAllocationKind(fl validator.FieldLevel) bool {
	switch budget.AllocationKind(fl.Field().String()) {
	case budget.FixedDollar, budget.FixedPercentage:
		return true
	}
	return false
}

func validateCategoryGroup(fl validator.FieldLevel) bool {
	switch budget.Group(fl.Field().String()) {
	case budget.GroupSavings, budget.GroupExpense:
		return true
	}
	return false
}
