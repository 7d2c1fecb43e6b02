package domain

import "github.com/shopspring/decimal"

// SalaryBreakdown is the itemized result of a gross-to-net computation.
// HealthInsurance is reported alongside and is not part of NetSalary.
type SalaryBreakdown struct {
	SubjectID       string
	GrossBasis      decimal.Decimal
	PensionPillar1  decimal.Decimal
	PensionPillar2  decimal.Decimal
	TotalPension    decimal.Decimal
	TaxBase         decimal.Decimal
	IncomeTax       decimal.Decimal
	Surtax          decimal.Decimal
	TotalTax        decimal.Decimal
	NetSalary       decimal.Decimal
	HealthInsurance decimal.Decimal
}
