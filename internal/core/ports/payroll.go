package ports

import (
	"github.com/shopspring/decimal"

	"github.com/skroflin/workforce-api/internal/core/domain"
)

// PayrollCalculator is implemented by payroll.Calculator.
type PayrollCalculator interface {
	ComputeBreakdown(subjectID string, grossBasis decimal.Decimal) (domain.SalaryBreakdown, error)
}
