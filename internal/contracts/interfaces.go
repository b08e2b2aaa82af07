package contracts

import (
	"context"
)

// Classifier guesses the statement kind of an upload (S0)
// ⭐ SSOT: 문서 분류 인터페이스
type Classifier interface {
	Classify(filename string, headers []string) StatementKind
}

// Extractor maps a classified table onto canonical fields (S1)
// ⭐ SSOT: 필드 추출 인터페이스
type Extractor interface {
	Extract(table RawTable, kind StatementKind) (Financials, ExtractionReport)
}

// RatioCalculator derives ratios from canonical fields (S2)
// ⭐ SSOT: 비율 계산 인터페이스
type RatioCalculator interface {
	Compute(f Financials) RatioSet
}

// Narrator produces free-text commentary for an assessment.
// It is an external collaborator; failures never fail the assessment.
type Narrator interface {
	Narrate(ctx context.Context, req NarrationRequest) (*Commentary, error)
	Enabled() bool
}
