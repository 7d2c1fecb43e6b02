// Package payroll turns a gross salary basis into an itemized breakdown of
// pension contributions, income tax, surtax and net pay.
//
// Every intermediate amount is rounded to two decimal places, half away from
// zero, before it feeds the next step. Amounts are always positive here, so
// this is the same as half-up.
package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/skroflin/workforce-api/internal/core/domain"
)

const scale = 2

// Rates holds the statutory percentages as fractions (0.15 == 15%).
type Rates struct {
	PensionPillar1  decimal.Decimal
	PensionPillar2  decimal.Decimal
	TotalPension    decimal.Decimal
	IncomeTax       decimal.Decimal
	Surtax          decimal.Decimal
	HealthInsurance decimal.Decimal
}

// DefaultRates returns the rates the calculator ships with.
func DefaultRates() Rates {
	return Rates{
		PensionPillar1:  decimal.RequireFromString("0.15"),
		PensionPillar2:  decimal.RequireFromString("0.05"),
		TotalPension:    decimal.RequireFromString("0.20"),
		IncomeTax:       decimal.RequireFromString("0.20"),
		Surtax:          decimal.RequireFromString("0.15"),
		HealthInsurance: decimal.RequireFromString("0.165"),
	}
}

// Validate checks that every rate lies in [0, 1).
func (r Rates) Validate() error {
	one := decimal.NewFromInt(1)
	for name, v := range map[string]decimal.Decimal{
		"pension_pillar1":  r.PensionPillar1,
		"pension_pillar2":  r.PensionPillar2,
		"total_pension":    r.TotalPension,
		"income_tax":       r.IncomeTax,
		"surtax":           r.Surtax,
		"health_insurance": r.HealthInsurance,
	} {
		if v.IsNegative() || v.GreaterThanOrEqual(one) {
			return fmt.Errorf("payroll rate %s=%s out of range: %w", name, v, domain.ErrInvalidInput)
		}
	}
	return nil
}

// Calculator is immutable once built and safe for concurrent use.
type Calculator struct {
	rates Rates
}

func NewCalculator(rates Rates) (*Calculator, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{rates: rates}, nil
}

// Rates returns a copy of the configured rates.
func (c *Calculator) Rates() Rates {
	return c.rates
}

// ComputeBreakdown computes the salary breakdown for grossBasis. A basis that
// is zero or negative fails with domain.ErrInvalidInput.
func (c *Calculator) ComputeBreakdown(subjectID string, grossBasis decimal.Decimal) (domain.SalaryBreakdown, error) {
	if !grossBasis.IsPositive() {
		return domain.SalaryBreakdown{}, fmt.Errorf("gross basis must be greater than zero, got %s: %w", grossBasis, domain.ErrInvalidInput)
	}

	gross := grossBasis
	pension1 := round(gross.Mul(c.rates.PensionPillar1))
	pension2 := round(gross.Mul(c.rates.PensionPillar2))
	totalPension := round(gross.Mul(c.rates.TotalPension))
	taxBase := round(gross.Sub(totalPension))
	incomeTax := round(taxBase.Mul(c.rates.IncomeTax))
	surtax := round(incomeTax.Mul(c.rates.Surtax))
	totalTax := round(incomeTax.Add(surtax))
	net := round(taxBase.Sub(totalTax))
	health := round(gross.Mul(c.rates.HealthInsurance))

	return domain.SalaryBreakdown{
		SubjectID:       subjectID,
		GrossBasis:      gross,
		PensionPillar1:  pension1,
		PensionPillar2:  pension2,
		TotalPension:    totalPension,
		TaxBase:         taxBase,
		IncomeTax:       incomeTax,
		Surtax:          surtax,
		TotalTax:        totalTax,
		NetSalary:       net,
		HealthInsurance: health,
	}, nil
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(scale)
}
