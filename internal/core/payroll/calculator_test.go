package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skroflin/workforce-api/internal/core/domain"
)

func newDefaultCalculator(t *testing.T) *Calculator {
	t.Helper()
	c, err := NewCalculator(DefaultRates())
	require.NoError(t, err)
	return c
}

type breakdownStrings struct {
	pension1, pension2, totalPension, taxBase, incomeTax, surtax, totalTax, net, health string
}

func fixed(b domain.SalaryBreakdown) breakdownStrings {
	return breakdownStrings{
		pension1:     b.PensionPillar1.StringFixed(2),
		pension2:     b.PensionPillar2.StringFixed(2),
		totalPension: b.TotalPension.StringFixed(2),
		taxBase:      b.TaxBase.StringFixed(2),
		incomeTax:    b.IncomeTax.StringFixed(2),
		surtax:       b.Surtax.StringFixed(2),
		totalTax:     b.TotalTax.StringFixed(2),
		net:          b.NetSalary.StringFixed(2),
		health:       b.HealthInsurance.StringFixed(2),
	}
}

func TestComputeBreakdown(t *testing.T) {
	c := newDefaultCalculator(t)

	testCases := []struct {
		name  string
		gross string
		want  breakdownStrings
	}{
		{
			name:  "round thousand",
			gross: "1000.00",
			want:  breakdownStrings{"150.00", "50.00", "200.00", "800.00", "160.00", "24.00", "184.00", "616.00", "165.00"},
		},
		{
			name:  "rounds after every step",
			gross: "1234.57",
			want:  breakdownStrings{"185.19", "61.73", "246.91", "987.66", "197.53", "29.63", "227.16", "760.50", "203.70"},
		},
		{
			name:  "half rounds up",
			gross: "0.30",
			want:  breakdownStrings{"0.05", "0.02", "0.06", "0.24", "0.05", "0.01", "0.06", "0.18", "0.05"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.ComputeBreakdown("emp-1", decimal.RequireFromString(tc.gross))
			require.NoError(t, err)
			assert.Equal(t, "emp-1", got.SubjectID)
			assert.True(t, got.GrossBasis.Equal(decimal.RequireFromString(tc.gross)))
			assert.Equal(t, tc.want, fixed(got))
		})
	}
}

func TestComputeBreakdown_HealthInsuranceNotDeducted(t *testing.T) {
	c := newDefaultCalculator(t)

	got, err := c.ComputeBreakdown("emp-1", decimal.NewFromInt(1000))
	require.NoError(t, err)

	assert.True(t, got.NetSalary.Equal(got.TaxBase.Sub(got.TotalTax)))
}

func TestComputeBreakdown_Deterministic(t *testing.T) {
	c := newDefaultCalculator(t)
	gross := decimal.RequireFromString("4321.99")

	first, err := c.ComputeBreakdown("x", gross)
	require.NoError(t, err)
	second, err := c.ComputeBreakdown("x", gross)
	require.NoError(t, err)

	assert.Equal(t, fixed(first), fixed(second))
	assert.Equal(t, first.NetSalary.String(), second.NetSalary.String())
}

func TestComputeBreakdown_RejectsNonPositive(t *testing.T) {
	c := newDefaultCalculator(t)

	for _, g := range []string{"0", "0.00", "-0.01", "-1000"} {
		t.Run(g, func(t *testing.T) {
			got, err := c.ComputeBreakdown("emp-1", decimal.RequireFromString(g))
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, domain.SalaryBreakdown{}, got)
		})
	}
}

func TestNewCalculator_RejectsOutOfRangeRates(t *testing.T) {
	rates := DefaultRates()
	rates.Surtax = decimal.NewFromInt(1)

	_, err := NewCalculator(rates)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	rates = DefaultRates()
	rates.IncomeTax = decimal.RequireFromString("-0.1")

	_, err = NewCalculator(rates)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalculator_CustomRates(t *testing.T) {
	rates := DefaultRates()
	rates.IncomeTax = decimal.RequireFromString("0.30")

	c, err := NewCalculator(rates)
	require.NoError(t, err)

	got, err := c.ComputeBreakdown("emp-2", decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.Equal(t, "240.00", got.IncomeTax.StringFixed(2))
	assert.Equal(t, "36.00", got.Surtax.StringFixed(2))
	assert.Equal(t, "524.00", got.NetSalary.StringFixed(2))
}
