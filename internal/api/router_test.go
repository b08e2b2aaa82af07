package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finhealth/internal/api/handlers"
	"github.com/wonny/finhealth/internal/assessment"
	"github.com/wonny/finhealth/internal/contracts"
	"github.com/wonny/finhealth/internal/ingest"
	"github.com/wonny/finhealth/internal/queue"
	"github.com/wonny/finhealth/pkg/config"
	"github.com/wonny/finhealth/pkg/logger"
)

// ============================================================================
// In-memory repositories
// ============================================================================

type memStore struct {
	mu          sync.Mutex
	businesses  map[int64]*contracts.Business
	financials  map[int64]*contracts.FinancialRecord
	assessments map[int64]*contracts.Assessment
	nextID      int64
	mergeErr    error
}

func newMemStore() *memStore {
	return &memStore{
		businesses:  map[int64]*contracts.Business{},
		financials:  map[int64]*contracts.FinancialRecord{},
		assessments: map[int64]*contracts.Assessment{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

type memBusinesses struct{ *memStore }

func (m memBusinesses) Create(_ context.Context, b *contracts.Business) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = m.id()
	if b.Size == "" {
		b.Size = contracts.SizeSmall
	}
	m.businesses[b.ID] = b
	return nil
}

func (m memBusinesses) GetByID(_ context.Context, id int64) (*contracts.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.businesses[id]
	if !ok {
		return nil, fmt.Errorf("business %d: %w", id, contracts.ErrNotFound)
	}
	return b, nil
}

func (m memBusinesses) List(context.Context, int, int) ([]*contracts.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*contracts.Business
	for _, b := range m.businesses {
		out = append(out, b)
	}
	return out, nil
}

type memFinancials struct{ *memStore }

func (m memFinancials) Upsert(_ context.Context, rec *contracts.FinancialRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.financials {
		if existing.BusinessID == rec.BusinessID && existing.FiscalYear == rec.FiscalYear {
			rec.ID = id
			m.financials[id] = rec
			return nil
		}
	}
	rec.ID = m.id()
	m.financials[rec.ID] = rec
	return nil
}

func (m memFinancials) Merge(_ context.Context, rec *contracts.FinancialRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mergeErr != nil {
		return "", m.mergeErr
	}
	for id, existing := range m.financials {
		if existing.BusinessID != rec.BusinessID || existing.FiscalYear != rec.FiscalYear {
			continue
		}
		rec.ID = id
		rec.Financials = existing.Financials.Merge(rec.Financials)
		previous := existing.UploadedFile
		if rec.UploadedFile == "" {
			rec.UploadedFile = previous
		}
		m.financials[id] = rec
		if previous == rec.UploadedFile {
			return "", nil
		}
		return previous, nil
	}
	rec.ID = m.id()
	m.financials[rec.ID] = rec
	return "", nil
}

func (m memFinancials) GetByID(_ context.Context, id int64) (*contracts.FinancialRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.financials[id]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return rec, nil
}

func (m memFinancials) ListByBusiness(_ context.Context, businessID int64) ([]*contracts.FinancialRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*contracts.FinancialRecord
	for _, rec := range m.financials {
		if rec.BusinessID == businessID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m memFinancials) Delete(_ context.Context, id int64) (*contracts.FinancialRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.financials[id]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	delete(m.financials, id)
	return rec, nil
}

type memAssessments struct{ *memStore }

func (m memAssessments) Save(_ context.Context, a *contracts.Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.id()
	m.assessments[a.ID] = a
	return nil
}

func (m memAssessments) GetByID(_ context.Context, id int64) (*contracts.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assessments[id]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return a, nil
}

func (m memAssessments) GetLatest(_ context.Context, businessID int64) (*contracts.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *contracts.Assessment
	for _, a := range m.assessments {
		if a.BusinessID == businessID && (latest == nil || a.ID > latest.ID) {
			latest = a
		}
	}
	if latest == nil {
		return nil, contracts.ErrNotFound
	}
	return latest, nil
}

func (m memAssessments) ListByBusiness(_ context.Context, businessID int64) ([]*contracts.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*contracts.Assessment
	for _, a := range m.assessments {
		if a.BusinessID == businessID {
			out = append(out, a)
		}
	}
	return out, nil
}

type stubQueue struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (q *stubQueue) Enqueue(_ context.Context, businessID int64, fiscalYear int) (*queue.AnalysisJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls = append(q.calls, fmt.Sprintf("%d/%d", businessID, fiscalYear))
	if q.err != nil {
		return nil, q.err
	}
	return &queue.AnalysisJob{ID: 1, CorrelationID: uuid.New(), BusinessID: businessID, FiscalYear: fiscalYear}, nil
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

// ============================================================================
// Fixture
// ============================================================================

type fixture struct {
	store  *memStore
	queue  *stubQueue
	router http.Handler
	dir    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	q := &stubQueue{}
	dir := t.TempDir()
	log := logger.Nop()

	upload := config.UploadConfig{MaxSizeMB: 1, AllowedExtensions: []string{"csv", "xlsx", "html", "pdf"}, Dir: dir}
	parser := ingest.NewParser(upload.MaxBytes(), zerolog.Nop())
	svc := assessment.NewService(parser, nil, nil, zerolog.Nop())

	h := Handlers{
		Health:      handlers.NewHealthHandler("finhealth-api", "test", nil),
		Businesses:  handlers.NewBusinessHandler(memBusinesses{store}, log),
		Financials:  handlers.NewFinancialHandler(parser, memFinancials{store}, memBusinesses{store}, q, upload, log),
		Assessments: handlers.NewAssessmentHandler(svc, memAssessments{store}, nil, nil, log),
		Events:      handlers.NewEventHub(log),
	}
	return &fixture{store: store, queue: q, router: NewRouter(h, RateLimit{}, log), dir: dir}
}

func (f *fixture) do(t *testing.T, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) createBusiness(t *testing.T) int64 {
	t.Helper()
	rec := f.do(t, "POST", "/api/businesses",
		[]byte(`{"business_name":"Ganga Textiles","industry":"manufacturing","established_year":2012}`),
		"application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var b contracts.Business
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	return b.ID
}

func multipartBody(t *testing.T, fields map[string]string, filename string, content []byte) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

// ============================================================================
// Tests
// ============================================================================

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, "GET", "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	h := handlers.NewHealthHandler("finhealth-api", "test", map[string]handlers.Pinger{"database": failingPinger{}})
	rec = httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestBusinesses(t *testing.T) {
	f := newFixture(t)
	id := f.createBusiness(t)

	rec := f.do(t, "GET", fmt.Sprintf("/api/businesses/%d", id), nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ganga Textiles")

	rec = f.do(t, "GET", "/api/businesses/999", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, "GET", "/api/businesses", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)
}

func TestCreateBusiness_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"industry":"retail"}`},
		{"bad industry", `{"business_name":"X","industry":"mining"}`},
		{"bad size", `{"business_name":"X","industry":"retail","business_size":"huge"}`},
		{"bad gst", `{"business_name":"X","industry":"retail","gst_number":"123"}`},
		{"not json", `{`},
	}
	f := newFixture(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, "POST", "/api/businesses", []byte(tt.body), "application/json")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUpload_ParsesStoresAndQueues(t *testing.T) {
	f := newFixture(t)
	id := f.createBusiness(t)

	csv := "Particulars,Amount\nSales Revenue,\"1,000,000\"\nCost of Goods Sold,600000\nSalary,150000\n"
	body, ct := multipartBody(t, map[string]string{
		"business_id": fmt.Sprint(id),
		"fiscal_year": "2024",
	}, "profit_loss_2024.csv", []byte(csv))

	rec := f.do(t, "POST", "/api/financial-data/upload", body, ct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID             int64                      `json:"id"`
		DocumentType   string                     `json:"document_type"`
		DataSource     string                     `json:"data_source"`
		UploadedFile   string                     `json:"uploaded_file_path"`
		Financials     contracts.Financials       `json:"financials"`
		Report         contracts.ExtractionReport `json:"extraction_report"`
		AnalysisStatus string                     `json:"analysis_status"`
		JobID          string                     `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "profit_loss", resp.DocumentType)
	assert.Equal(t, "csv", resp.DataSource)
	assert.Equal(t, 1000000.0, resp.Financials.TotalRevenue)
	assert.Equal(t, 3, resp.Report.RowsMatched)
	assert.Equal(t, handlers.AnalysisProcessing, resp.AnalysisStatus)
	assert.NotEmpty(t, resp.JobID)
	assert.Equal(t, []string{fmt.Sprintf("%d/2024", id)}, f.queue.calls)

	// stored under a random name with the original extension
	assert.Equal(t, f.dir, filepath.Dir(resp.UploadedFile))
	assert.True(t, strings.HasSuffix(resp.UploadedFile, ".csv"))
	_, err := os.Stat(resp.UploadedFile)
	assert.NoError(t, err)

	// a balance sheet for the same year merges into the same row
	bs := "Item,Amount\nTotal Assets,800000\nCurrent Assets,400000\nCurrent Liabilities,200000\n"
	body, ct = multipartBody(t, map[string]string{
		"business_id": fmt.Sprint(id),
		"fiscal_year": "2024",
	}, "balance_sheet.csv", []byte(bs))
	rec = f.do(t, "POST", "/api/financial-data/upload", body, ct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, "GET", fmt.Sprintf("/api/financial-data?business_id=%d", id), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		FinancialData []contracts.FinancialRecord `json:"financial_data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.FinancialData, 1)
	assert.Equal(t, 1000000.0, list.FinancialData[0].Financials.TotalRevenue)
	assert.Equal(t, 800000.0, list.FinancialData[0].Financials.TotalAssets)
}

func TestUpload_ConcurrentStatementsMerge(t *testing.T) {
	f := newFixture(t)
	id := fmt.Sprint(f.createBusiness(t))

	files := map[string]string{
		"profit_loss_2024.csv":   "Item,Amount\nSales Revenue,1000000\n",
		"balance_sheet_2024.csv": "Item,Amount\nTotal Assets,800000\n",
	}

	var wg sync.WaitGroup
	codes := make(chan int, len(files))
	for name, content := range files {
		body, ct := multipartBody(t, map[string]string{"business_id": id, "fiscal_year": "2024"}, name, []byte(content))
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes <- f.do(t, "POST", "/api/financial-data/upload", body, ct).Code
		}()
	}
	wg.Wait()
	close(codes)
	for code := range codes {
		assert.Equal(t, http.StatusCreated, code)
	}

	require.Len(t, f.store.financials, 1)
	var stored *contracts.FinancialRecord
	for _, rec := range f.store.financials {
		stored = rec
	}
	assert.Equal(t, 1000000.0, stored.Financials.TotalRevenue)
	assert.Equal(t, 800000.0, stored.Financials.TotalAssets)

	// only the upload the row points at is kept on disk
	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, stored.UploadedFile, filepath.Join(f.dir, entries[0].Name()))
}

func TestUpload_SaveFailureRemovesFile(t *testing.T) {
	f := newFixture(t)
	id := fmt.Sprint(f.createBusiness(t))
	f.store.mergeErr = errors.New("db down")

	body, ct := multipartBody(t, map[string]string{"business_id": id, "fiscal_year": "2024"},
		"pnl.csv", []byte("Item,Amount\nRevenue,100\n"))
	rec := f.do(t, "POST", "/api/financial-data/upload", body, ct)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, f.queue.calls)
}

func TestUpload_Rejections(t *testing.T) {
	f := newFixture(t)
	id := fmt.Sprint(f.createBusiness(t))
	csv := []byte("Item,Amount\nRevenue,100\n")

	tests := []struct {
		name     string
		fields   map[string]string
		filename string
		content  []byte
		status   int
	}{
		{"missing business", map[string]string{"fiscal_year": "2024"}, "a.csv", csv, http.StatusBadRequest},
		{"bad year", map[string]string{"business_id": id, "fiscal_year": "24x"}, "a.csv", csv, http.StatusBadRequest},
		{"year out of range", map[string]string{"business_id": id, "fiscal_year": "1700"}, "a.csv", csv, http.StatusBadRequest},
		{"missing file", map[string]string{"business_id": id, "fiscal_year": "2024"}, "", nil, http.StatusBadRequest},
		{"extension", map[string]string{"business_id": id, "fiscal_year": "2024"}, "a.txt", csv, http.StatusBadRequest},
		{"legacy excel", map[string]string{"business_id": id, "fiscal_year": "2024"}, "a.xls", csv, http.StatusBadRequest},
		{"unknown business", map[string]string{"business_id": "999", "fiscal_year": "2024"}, "a.csv", csv, http.StatusNotFound},
		{"header only", map[string]string{"business_id": id, "fiscal_year": "2024"}, "a.csv", []byte("Item,Amount\n"), http.StatusBadRequest},
		{"too large", map[string]string{"business_id": id, "fiscal_year": "2024"}, "a.csv", bytes.Repeat([]byte("x"), 2<<20+10), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, tt.fields, tt.filename, tt.content)
			rec := f.do(t, "POST", "/api/financial-data/upload", body, ct)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
	assert.Empty(t, f.queue.calls)
}

func TestUpload_QueueDown(t *testing.T) {
	f := newFixture(t)
	f.queue.err = errors.New("db down")
	id := f.createBusiness(t)

	body, ct := multipartBody(t, map[string]string{"business_id": fmt.Sprint(id), "fiscal_year": "2024"},
		"pnl.csv", []byte("Item,Amount\nRevenue,100\n"))
	rec := f.do(t, "POST", "/api/financial-data/upload", body, ct)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"analysis_status":"not_queued"`)
}

func TestFinancialData_GetDelete(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(f.dir, "stored.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	rec := &contracts.FinancialRecord{BusinessID: 1, FiscalYear: 2024, UploadedFile: path}
	require.NoError(t, memFinancials{f.store}.Upsert(context.Background(), rec))

	resp := f.do(t, "GET", fmt.Sprintf("/api/financial-data/%d", rec.ID), nil, "")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = f.do(t, "DELETE", fmt.Sprintf("/api/financial-data/%d", rec.ID), nil, "")
	assert.Equal(t, http.StatusNoContent, resp.Code)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	resp = f.do(t, "GET", fmt.Sprintf("/api/financial-data/%d", rec.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = f.do(t, "GET", "/api/financial-data", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPreview(t *testing.T) {
	f := newFixture(t)
	body := `{
		"financials": {"total_revenue": 1000000, "total_expenses": 850000, "current_assets": 400000, "current_liabilities": 200000},
		"business": {"industry": "retail", "business_size": "small", "established_year": 2014},
		"revenue_history": [800000, 900000, 1000000]
	}`
	rec := f.do(t, "POST", "/api/assessments/preview", []byte(body), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var a contracts.Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, 2.0, a.Ratios.CurrentRatio)
	assert.Equal(t, 15.0, a.Ratios.NetProfitMargin)
	assert.Equal(t, contracts.TrendIncreasing, a.Forecast.RevenueTrend)
	assert.Equal(t, contracts.CommentaryDisabled, a.CommentaryStatus)
	assert.Empty(t, f.store.assessments, "preview is not stored")
}

func TestAssessmentEndpoints(t *testing.T) {
	f := newFixture(t)
	repo := memAssessments{f.store}
	ctx := context.Background()

	older := &contracts.Assessment{BusinessID: 7, FiscalYear: 2023, Credit: contracts.CreditAssessment{Score: 40, Rating: contracts.RatingBB}}
	newer := &contracts.Assessment{BusinessID: 7, FiscalYear: 2024, Credit: contracts.CreditAssessment{Score: 72, Rating: contracts.RatingA}}
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	rec := f.do(t, "GET", "/api/assessments/latest/7", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rating":"A"`)

	rec = f.do(t, "GET", "/api/assessments/business/7", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":2`)

	rec = f.do(t, "GET", fmt.Sprintf("/api/assessments/%d", older.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fiscal_year":2023`)

	rec = f.do(t, "GET", "/api/assessments/latest/8", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReport_Formats(t *testing.T) {
	f := newFixture(t)
	a := &contracts.Assessment{BusinessID: 7, FiscalYear: 2024, Credit: contracts.CreditAssessment{Score: 72, Rating: contracts.RatingA}}
	require.NoError(t, memAssessments{f.store}.Save(context.Background(), a))

	rec := f.do(t, "GET", fmt.Sprintf("/api/assessments/%d/report", a.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<h1>Financial Health Report</h1>")

	rec = f.do(t, "GET", fmt.Sprintf("/api/assessments/%d/report?format=md", a.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "# Financial Health Report"))

	rec = f.do(t, "GET", fmt.Sprintf("/api/assessments/%d/report?format=pdf", a.ID), nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, "GET", "/api/assessments/999/report", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecovery(t *testing.T) {
	log := logger.Nop()
	h := recoveryMiddleware(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, "10.1.2.3", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}
