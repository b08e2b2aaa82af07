package contracts

import (
	"time"
)

// Industry is the business sector
type Industry string

const (
	IndustryManufacturing Industry = "manufacturing"
	IndustryRetail        Industry = "retail"
	IndustryAgriculture   Industry = "agriculture"
	IndustryServices      Industry = "services"
	IndustryLogistics     Industry = "logistics"
	IndustryEcommerce     Industry = "ecommerce"
	IndustryHospitality   Industry = "hospitality"
	IndustryHealthcare    Industry = "healthcare"
	IndustryTechnology    Industry = "technology"
	IndustryConstruction  Industry = "construction"
	IndustryOther         Industry = "other"
)

// BusinessSize is the MSME size class
type BusinessSize string

const (
	SizeMicro  BusinessSize = "micro"
	SizeSmall  BusinessSize = "small"
	SizeMedium BusinessSize = "medium"
)

// BusinessMeta is the business metadata the scoring engine needs
type BusinessMeta struct {
	Name            string       `json:"business_name,omitempty"`
	Industry        Industry     `json:"industry,omitempty"`
	Size            BusinessSize `json:"business_size,omitempty"`
	EstablishedYear int          `json:"established_year,omitempty"` // 0 = unknown
}

// YearsInOperation returns the business age at now, 0 when unknown or in the future
func (m BusinessMeta) YearsInOperation(now time.Time) int {
	if m.EstablishedYear <= 0 {
		return 0
	}
	years := now.Year() - m.EstablishedYear
	if years < 0 {
		return 0
	}
	return years
}

// Business is a registered business profile
type Business struct {
	ID                 int64        `json:"id"`
	Name               string       `json:"business_name" validate:"required,max=200"`
	LegalName          string       `json:"legal_name,omitempty" validate:"max=200"`
	RegistrationNumber string       `json:"registration_number,omitempty"`
	GSTNumber          string       `json:"gst_number,omitempty" validate:"omitempty,len=15,alphanum"`
	PANNumber          string       `json:"pan_number,omitempty" validate:"omitempty,len=10,alphanum"`
	Industry           Industry     `json:"industry" validate:"required,oneof=manufacturing retail agriculture services logistics ecommerce hospitality healthcare technology construction other"`
	Size               BusinessSize `json:"business_size" validate:"omitempty,oneof=micro small medium"`
	City               string       `json:"city,omitempty"`
	State              string       `json:"state,omitempty"`
	Email              string       `json:"email,omitempty" validate:"omitempty,email"`
	AnnualRevenue      float64      `json:"annual_revenue,omitempty" validate:"gte=0"`
	EmployeeCount      int          `json:"employee_count,omitempty" validate:"gte=0"`
	EstablishedYear    int          `json:"established_year,omitempty" validate:"omitempty,gte=1800,lte=2100"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// Meta returns the scoring metadata for the business
func (b Business) Meta() BusinessMeta {
	size := b.Size
	if size == "" {
		size = SizeSmall
	}
	industry := b.Industry
	if industry == "" {
		industry = IndustryOther
	}
	return BusinessMeta{
		Name:            b.Name,
		Industry:        industry,
		Size:            size,
		EstablishedYear: b.EstablishedYear,
	}
}

// DataSource identifies where a financial record came from
type DataSource string

const (
	SourceCSV    DataSource = "csv"
	SourceExcel  DataSource = "excel"
	SourceHTML   DataSource = "html"
	SourcePDF    DataSource = "pdf"
	SourceManual DataSource = "manual"
)

// FinancialRecord is one business's canonical financials for a fiscal year
// ⭐ SSOT: (business_id, fiscal_year) 당 한 행
type FinancialRecord struct {
	ID           int64         `json:"id"`
	BusinessID   int64         `json:"business_id"`
	FiscalYear   int           `json:"fiscal_year"`
	PeriodStart  time.Time     `json:"period_start"`
	PeriodEnd    time.Time     `json:"period_end"`
	Kind         StatementKind `json:"document_type"`
	Source       DataSource    `json:"data_source"`
	UploadedFile string        `json:"uploaded_file_path,omitempty"`
	Financials   Financials    `json:"financials"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// FiscalPeriod returns the calendar-year period for a fiscal year
func FiscalPeriod(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return start, end
}
