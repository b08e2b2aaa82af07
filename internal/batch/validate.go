package batch

import (
	"fmt"

	"github.com/wonny/finhealth/internal/contracts"
	"github.com/wonny/finhealth/internal/ingest"
)

// ValidationError names the manifest field that failed
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	industries = map[contracts.Industry]bool{
		contracts.IndustryManufacturing: true,
		contracts.IndustryRetail:        true,
		contracts.IndustryAgriculture:   true,
		contracts.IndustryServices:      true,
		contracts.IndustryLogistics:     true,
		contracts.IndustryEcommerce:     true,
		contracts.IndustryHospitality:   true,
		contracts.IndustryHealthcare:    true,
		contracts.IndustryTechnology:    true,
		contracts.IndustryConstruction:  true,
		contracts.IndustryOther:         true,
	}
	sizes = map[contracts.BusinessSize]bool{
		contracts.SizeMicro:  true,
		contracts.SizeSmall:  true,
		contracts.SizeMedium: true,
	}
)

// Validate checks a decoded manifest
func Validate(m *Manifest) error {
	if m.Name == "" {
		return ValidationError{"name", "required"}
	}
	if m.Concurrency < 0 || m.Concurrency > MaxConcurrency {
		return ValidationError{"concurrency", fmt.Sprintf("must be in [0, %d]", MaxConcurrency)}
	}
	if err := validateMeta("defaults", m.Defaults.Industry, m.Defaults.Size, m.Defaults.EstablishedYear); err != nil {
		return err
	}
	if len(m.Businesses) == 0 {
		return ValidationError{"businesses", "at least one entry required"}
	}

	seen := make(map[string]bool, len(m.Businesses))
	for i, e := range m.Businesses {
		field := fmt.Sprintf("businesses[%d]", i)
		if e.Name == "" {
			return ValidationError{field + ".name", "required"}
		}
		if seen[e.Name] {
			return ValidationError{field + ".name", fmt.Sprintf("duplicate %q", e.Name)}
		}
		seen[e.Name] = true

		if err := validateMeta(field, e.Industry, e.Size, e.EstablishedYear); err != nil {
			return err
		}
		if len(e.Files) == 0 {
			return ValidationError{field + ".files", "at least one file required"}
		}
		for j, f := range e.Files {
			if _, ok := ingest.DataSource(f); !ok {
				return ValidationError{fmt.Sprintf("%s.files[%d]", field, j), fmt.Sprintf("unsupported file type %q", f)}
			}
		}
	}
	return nil
}

func validateMeta(field string, industry contracts.Industry, size contracts.BusinessSize, established int) error {
	if industry != "" && !industries[industry] {
		return ValidationError{field + ".industry", fmt.Sprintf("unknown industry %q", industry)}
	}
	if size != "" && !sizes[size] {
		return ValidationError{field + ".business_size", fmt.Sprintf("unknown size %q", size)}
	}
	if established != 0 && (established < 1800 || established > 2100) {
		return ValidationError{field + ".established_year", "must be in [1800, 2100]"}
	}
	return nil
}
