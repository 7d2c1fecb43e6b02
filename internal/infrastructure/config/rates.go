package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"github.com/skroflin/workforce-api/internal/core/payroll"
)

// LoadPayrollRates returns the default payroll rates, overridden by any
// keys present under "payroll" in the YAML file at path. An empty path
// means defaults only.
//
//	payroll:
//	  pension_pillar1: 0.15
//	  pension_pillar2: 0.05
//	  total_pension: 0.20
//	  income_tax: 0.20
//	  surtax: 0.15
//	  health_insurance: 0.165
func LoadPayrollRates(path string) (payroll.Rates, error) {
	rates := payroll.DefaultRates()
	if path == "" {
		return rates, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return payroll.Rates{}, fmt.Errorf("read payroll rates %s: %w", path, err)
	}

	fields := map[string]*decimal.Decimal{
		"payroll.pension_pillar1":  &rates.PensionPillar1,
		"payroll.pension_pillar2":  &rates.PensionPillar2,
		"payroll.total_pension":    &rates.TotalPension,
		"payroll.income_tax":       &rates.IncomeTax,
		"payroll.surtax":           &rates.Surtax,
		"payroll.health_insurance": &rates.HealthInsurance,
	}
	for key, dst := range fields {
		if !k.Exists(key) {
			continue
		}
		v, err := decimal.NewFromString(k.String(key))
		if err != nil {
			return payroll.Rates{}, fmt.Errorf("payroll rate %s: %w", key, err)
		}
		*dst = v
	}

	if err := rates.Validate(); err != nil {
		return payroll.Rates{}, err
	}
	return rates, nil
}
