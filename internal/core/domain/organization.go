package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company is an employer. Deleting a company marks it bankrupt.
type Company struct {
	ID        string
	Name      string
	Location  string
	Bankrupt  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Department belongs to a Company. Deleting one clears Active.
type Department struct {
	ID        string
	Name      string
	Location  string
	Active    bool
	CompanyID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Employee is a person on a department's payroll. Deleting one clears Employed.
type Employee struct {
	ID           string
	Name         string
	Surname      string
	Salary       decimal.Decimal
	DateOfBirth  time.Time
	StartDate    time.Time
	Employed     bool
	DepartmentID string
	CompanyID    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrgFilter narrows list queries. Zero values mean "no filter".
type OrgFilter struct {
	NameContains     string
	LocationContains string
	// Active matches the status flag: solvent companies, active departments,
	// employed employees. true keeps only those, false only the others.
	Active    *bool
	CompanyID string
	// StartedFrom and StartedTo bound an employee's start date, both inclusive.
	StartedFrom time.Time
	StartedTo   time.Time
}

// CompanyStats counts companies by solvency.
type CompanyStats struct {
	Total    int64
	Bankrupt int64
	Solvent  int64
}
