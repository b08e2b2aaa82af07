package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wonny/finhealth/internal/contracts"
	"github.com/wonny/finhealth/internal/extraction"
)

// errEmptyTable is wrapped into ErrUnsupportedInput for header-only uploads
var errEmptyTable = errors.New("empty table")

// ParsedDocument is one upload after reading, classification and extraction
type ParsedDocument struct {
	Filename   string                     `json:"filename"`
	Kind       contracts.StatementKind    `json:"document_type"`
	Source     contracts.DataSource       `json:"data_source"`
	Table      contracts.RawTable         `json:"-"`
	Text       string                     `json:"-"`
	Financials contracts.Financials       `json:"financials"`
	Report     contracts.ExtractionReport `json:"extraction_report"`
	RawPDF     []byte                     `json:"-"`
}

// Parser turns raw upload bytes into canonical financials
// ⭐ SSOT: 업로드 파일 → ParsedDocument 변환은 여기서만
type Parser struct {
	classifier contracts.Classifier
	extractor  contracts.Extractor
	maxBytes   int64
	log        zerolog.Logger
}

// NewParser creates a parser. maxBytes <= 0 disables the size check.
func NewParser(maxBytes int64, log zerolog.Logger) *Parser {
	return &Parser{
		classifier: extraction.NewDocumentClassifier(),
		extractor:  extraction.NewFieldExtractor(log),
		maxBytes:   maxBytes,
		log:        log.With().Str("component", "ingest.parser").Logger(),
	}
}

// DataSource maps a filename to the data source recorded with it
func DataSource(filename string) (contracts.DataSource, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return contracts.SourceCSV, true
	case ".xlsx":
		return contracts.SourceExcel, true
	case ".html", ".htm":
		return contracts.SourceHTML, true
	case ".pdf":
		return contracts.SourcePDF, true
	}
	return "", false
}

// Parse reads, classifies and extracts one upload
func (p *Parser) Parse(ctx context.Context, filename string, content []byte) (*ParsedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.maxBytes > 0 && int64(len(content)) > p.maxBytes {
		return nil, fmt.Errorf("%s is %d bytes, limit %d: %w", filename, len(content), p.maxBytes, contracts.ErrFileTooLarge)
	}

	source, ok := DataSource(filename)
	if !ok {
		return nil, fmt.Errorf("file type %q: %w", filepath.Ext(filename), contracts.ErrUnsupportedInput)
	}

	if source == contracts.SourcePDF {
		return p.parsePDF(filename, content)
	}

	var (
		table contracts.RawTable
		err   error
	)
	switch source {
	case contracts.SourceCSV:
		table, err = readCSV(content)
	case contracts.SourceExcel:
		table, err = readXLSX(content)
	case contracts.SourceHTML:
		table, err = readHTML(content)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	kind := p.classifier.Classify(filename, table.Headers)
	fin, report := p.extractor.Extract(table, kind)

	p.log.Info().
		Str("file", filename).
		Str("source", string(source)).
		Str("kind", kind.String()).
		Int("rows", report.RowsTotal).
		Int("matched", report.RowsMatched).
		Int("skipped", report.RowsSkipped).
		Msg("Parsed upload")

	return &ParsedDocument{
		Filename:   filename,
		Kind:       kind,
		Source:     source,
		Table:      table,
		Financials: fin,
		Report:     report,
	}, nil
}

// parsePDF extracts the text layer and keeps the raw bytes for the narrator
func (p *Parser) parsePDF(filename string, content []byte) (*ParsedDocument, error) {
	text, err := readPDFText(content)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	firstLine := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		firstLine = text[:i]
	}
	kind := p.classifier.Classify(filename, []string{firstLine})

	fin, found := extraction.ExtractTextFields(text)
	report := contracts.ExtractionReport{
		Kind:         kind,
		AmountColumn: -1,
		RowsMatched:  len(found),
	}

	if len(found) == 0 {
		p.log.Warn().Str("file", filename).Msg("No figures found in PDF text layer")
	}

	return &ParsedDocument{
		Filename:   filename,
		Kind:       kind,
		Source:     contracts.SourcePDF,
		Text:       text,
		Financials: fin,
		Report:     report,
		RawPDF:     content,
	}, nil
}
