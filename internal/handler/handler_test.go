package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"solarwatch/internal/anomaly"
	"solarwatch/internal/cache"
	"solarwatch/internal/config"
	"solarwatch/internal/db"
	gormrepository "solarwatch/internal/repository/gorm"
	"solarwatch/internal/service"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

type testServer struct {
	engine *gin.Engine
	store  *gormrepository.Store
	flags  *service.SystemSettingsService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conn, err := db.Open(config.DBConfig{Driver: db.DriverSQLite, DSN: "file::memory:", MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(conn) })
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	store := gormrepository.New(conn.Gorm)
	flags := &service.SystemSettingsService{Repo: store}
	if err := flags.EnsureDefaultSwitches(context.Background()); err != nil {
		t.Fatalf("switches: %v", err)
	}
	reports := &service.SweepReportStore{Cache: cache.NewMemoryStore(), TTL: time.Hour}
	runner := &anomaly.FleetRunner{
		Units: store,
		Scanner: &anomaly.Scanner{
			Records:   store,
			Anomalies: store,
			Evaluator: anomaly.NewEvaluator(anomaly.DefaultThresholds()),
		},
		Reporter: reports,
	}

	engine := gin.New()
	(&HealthHandler{DB: conn}).Register(engine)
	RegisterDocs(engine)
	(&AnomalyHandler{
		Repo:      store,
		Detection: &service.DetectionService{Runner: runner, Flags: flags},
		Reports:   reports,
	}).Register(engine)
	(&SolarUnitHandler{Repo: store}).Register(engine)
	(&EnergyRecordHandler{Repo: store}).Register(engine)
	(&InvoiceHandler{Repo: store, Invoices: &service.InvoiceService{Repo: store, Flags: flags}}).Register(engine)
	(&SystemSettingsHandler{Settings: flags}).Register(engine)
	return &testServer{engine: engine, store: store, flags: flags}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, env
}

func decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data %s: %v", string(env.Data), err)
	}
}

// seedFleet registers one unit with a day of readings that trips drop, clipping and night rules.
func seedFleet(t *testing.T, s *testServer) uint64 {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/api/solar-units", map[string]any{
		"serial_number":     "SU-0001",
		"user_id":           "user-1",
		"installation_date": "2025-01-01",
		"capacity_kw":       6.5,
	})
	if code != http.StatusCreated {
		t.Fatalf("create unit: %d %s", code, env.Message)
	}
	var unit struct {
		ID     uint64 `json:"id"`
		Status string `json:"status"`
	}
	decodeData(t, env, &unit)
	if unit.ID == 0 || unit.Status != "ACTIVE" {
		t.Fatalf("unexpected unit: %+v", unit)
	}

	records := []map[string]any{
		{"solar_unit_id": unit.ID, "timestamp": "2026-06-01T08:00:00Z", "energy_generated": 20},
		{"solar_unit_id": unit.ID, "timestamp": "2026-06-01T09:00:00Z", "energy_generated": 8},
		{"solar_unit_id": unit.ID, "timestamp": "2026-06-01T11:00:00Z", "energy_generated": 350},
		{"solar_unit_id": unit.ID, "timestamp": "2026-06-01T12:00:00Z", "energy_generated": 350},
		{"solar_unit_id": unit.ID, "timestamp": "2026-06-01T23:00:00Z", "energy_generated": 2, "interval_hours": 1},
	}
	code, env = s.do(t, http.MethodPost, "/api/energy-generation-records", map[string]any{"records": records})
	if code != http.StatusOK {
		t.Fatalf("ingest: %d %s", code, env.Message)
	}
	var ingest struct {
		Inserted   int64 `json:"inserted"`
		Duplicates int64 `json:"duplicates"`
	}
	decodeData(t, env, &ingest)
	if ingest.Inserted != 5 || ingest.Duplicates != 0 {
		t.Fatalf("unexpected ingest: %+v", ingest)
	}
	return unit.ID
}

func TestHealthAndDocs(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz: %d %s", rec.Code, rec.Body.String())
	}
	req = httptest.NewRequest(http.MethodGet, "/docs", nil)
	rec = httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte("/api/anomalies/trigger-detection")) {
		t.Fatalf("docs: %d", rec.Code)
	}
}

func TestEnergyIngestValidation(t *testing.T) {
	s := newTestServer(t)
	unitID := seedFleet(t, s)

	cases := []struct {
		name   string
		record map[string]any
	}{
		{"negative energy", map[string]any{"solar_unit_id": unitID, "timestamp": "2026-06-02T08:00:00Z", "energy_generated": -1}},
		{"missing energy", map[string]any{"solar_unit_id": unitID, "timestamp": "2026-06-02T08:00:00Z"}},
		{"interval too long", map[string]any{"solar_unit_id": unitID, "timestamp": "2026-06-02T08:00:00Z", "energy_generated": 1, "interval_hours": 25}},
		{"bad timestamp", map[string]any{"solar_unit_id": unitID, "timestamp": "yesterday", "energy_generated": 1}},
		{"unknown unit", map[string]any{"solar_unit_id": unitID + 100, "timestamp": "2026-06-02T08:00:00Z", "energy_generated": 1}},
	}
	for _, tc := range cases {
		code, env := s.do(t, http.MethodPost, "/api/energy-generation-records", map[string]any{"records": []any{tc.record}})
		if code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d %s", tc.name, code, env.Message)
		}
	}

	// Re-sending stored readings is absorbed.
	code, env := s.do(t, http.MethodPost, "/api/energy-generation-records", map[string]any{"records": []any{
		map[string]any{"solar_unit_id": unitID, "timestamp": "2026-06-01T08:00:00Z", "energy_generated": 20},
	}})
	if code != http.StatusOK {
		t.Fatalf("resend: %d %s", code, env.Message)
	}
	var ingest struct {
		Inserted   int64 `json:"inserted"`
		Duplicates int64 `json:"duplicates"`
	}
	decodeData(t, env, &ingest)
	if ingest.Inserted != 0 || ingest.Duplicates != 1 {
		t.Fatalf("unexpected resend result: %+v", ingest)
	}

	code, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/energy-generation-records/solar-unit/%d?from=2026-06-01T09:00:00Z&to=2026-06-01T12:00:00Z", unitID), nil)
	if code != http.StatusOK {
		t.Fatalf("list records: %d %s", code, env.Message)
	}
	var records []struct {
		EnergyGenerated float64 `json:"energy_generated"`
	}
	decodeData(t, env, &records)
	if len(records) != 2 || records[0].EnergyGenerated != 8 || records[1].EnergyGenerated != 350 {
		t.Fatalf("unexpected window: %+v", records)
	}
}

func TestTriggerDetectionAndReview(t *testing.T) {
	s := newTestServer(t)
	unitID := seedFleet(t, s)

	if code, _ := s.do(t, http.MethodGet, "/api/anomalies/detection-runs/latest", nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 before any run, got %d", code)
	}

	code, env := s.do(t, http.MethodPost, "/api/anomalies/trigger-detection", nil)
	if code != http.StatusOK {
		t.Fatalf("trigger: %d %s", code, env.Message)
	}
	var report anomaly.SweepReport
	decodeData(t, env, &report)
	if report.Trigger != service.TriggerManual || report.Units != 1 || report.Inserted != 3 || report.Failed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	// A second pass finds the same facts and stores nothing new.
	code, env = s.do(t, http.MethodPost, "/api/anomalies/trigger-detection", nil)
	if code != http.StatusOK {
		t.Fatalf("second trigger: %d", code)
	}
	decodeData(t, env, &report)
	if report.Inserted != 0 || report.Duplicates != 3 {
		t.Fatalf("expected idempotent second pass, got %+v", report)
	}

	code, env = s.do(t, http.MethodGet, "/api/anomalies/detection-runs/latest", nil)
	if code != http.StatusOK {
		t.Fatalf("latest: %d", code)
	}

	code, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/anomalies?solar_unit_id=%d", unitID), nil)
	if code != http.StatusOK {
		t.Fatalf("list: %d %s", code, env.Message)
	}
	var items []struct {
		ID           uint64 `json:"id"`
		Type         string `json:"type"`
		Severity     string `json:"severity"`
		SerialNumber string `json:"serial_number"`
		UserID       string `json:"user_id"`
	}
	decodeData(t, env, &items)
	if len(items) != 3 || env.Meta["total"] != float64(3) {
		t.Fatalf("expected 3 anomalies, got %d meta=%v", len(items), env.Meta)
	}
	if items[0].Type != "NIGHTTIME_GENERATION" || items[1].Type != "INVERTER_CLIPPING" || items[2].Type != "SUDDEN_DROP" {
		t.Fatalf("unexpected order: %+v", items)
	}
	if items[0].SerialNumber != "SU-0001" || items[0].UserID != "user-1" {
		t.Fatalf("expected unit fields on items: %+v", items[0])
	}

	if code, _ := s.do(t, http.MethodGet, "/api/anomalies?type=BOGUS", nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad type filter, got %d", code)
	}

	path := fmt.Sprintf("/api/anomalies/%d", items[1].ID)
	if code, _ := s.do(t, http.MethodPatch, path, map[string]any{"resolution_status": "DONE"}); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad status, got %d", code)
	}
	if code, _ := s.do(t, http.MethodPatch, "/api/anomalies/99999", map[string]any{"resolution_status": "RESOLVED"}); code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing anomaly, got %d", code)
	}
	code, env = s.do(t, http.MethodPatch, path, map[string]any{"resolution_status": "acknowledged"})
	if code != http.StatusOK {
		t.Fatalf("patch: %d %s", code, env.Message)
	}

	code, env = s.do(t, http.MethodGet, "/api/anomalies/stats", nil)
	if code != http.StatusOK {
		t.Fatalf("stats: %d", code)
	}
	var stats struct {
		Total    int64            `json:"total"`
		ByStatus map[string]int64 `json:"by_status"`
	}
	decodeData(t, env, &stats)
	if stats.Total != 3 || stats.ByStatus["OPEN"] != 2 || stats.ByStatus["ACKNOWLEDGED"] != 1 || stats.ByStatus["RESOLVED"] != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestTriggerDetectionSwitchedOff(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(t, http.MethodPut, "/api/system-settings/switches/anomaly_detection", map[string]any{"enabled": false})
	if code != http.StatusOK {
		t.Fatalf("put switch: %d %s", code, env.Message)
	}
	if code, _ := s.do(t, http.MethodPost, "/api/anomalies/trigger-detection", nil); code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}
	if code, _ := s.do(t, http.MethodPut, "/api/system-settings/switches/nope", map[string]any{"enabled": true}); code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown switch, got %d", code)
	}

	code, env = s.do(t, http.MethodGet, "/api/system-settings/switches", nil)
	if code != http.StatusOK {
		t.Fatalf("list switches: %d", code)
	}
	var switches []service.FeatureSwitch
	decodeData(t, env, &switches)
	if len(switches) != 2 || switches[0].Name != "anomaly_detection" || switches[0].Enabled {
		t.Fatalf("unexpected switches: %+v", switches)
	}
}

func TestSolarUnitCRUD(t *testing.T) {
	s := newTestServer(t)
	unitID := seedFleet(t, s)
	path := fmt.Sprintf("/api/solar-units/%d", unitID)

	if code, _ := s.do(t, http.MethodPost, "/api/solar-units", map[string]any{
		"serial_number": "SU-0001", "user_id": "user-2", "installation_date": "2025-02-01",
	}); code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate serial, got %d", code)
	}
	if code, _ := s.do(t, http.MethodPost, "/api/solar-units", map[string]any{
		"serial_number": "SU-0002", "user_id": "user-2", "installation_date": "2025-02-01", "status": "BROKEN",
	}); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad status, got %d", code)
	}

	code, env := s.do(t, http.MethodPut, path, map[string]any{
		"serial_number": "SU-0001", "user_id": "user-1", "installation_date": "2025-01-01", "status": "maintenance",
	})
	if code != http.StatusOK {
		t.Fatalf("update: %d %s", code, env.Message)
	}
	code, env = s.do(t, http.MethodGet, path, nil)
	if code != http.StatusOK {
		t.Fatalf("get: %d", code)
	}
	var unit struct {
		Status string `json:"status"`
	}
	decodeData(t, env, &unit)
	if unit.Status != "MAINTENANCE" {
		t.Fatalf("expected MAINTENANCE, got %q", unit.Status)
	}

	if code, _ := s.do(t, http.MethodDelete, path, nil); code != http.StatusOK {
		t.Fatalf("delete: %d", code)
	}
	if code, _ := s.do(t, http.MethodGet, path, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", code)
	}
	if code, _ := s.do(t, http.MethodDelete, path, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", code)
	}
}

func TestGenerateInvoices(t *testing.T) {
	s := newTestServer(t)
	unitID := seedFleet(t, s)

	code, env := s.do(t, http.MethodPost, "/api/admin/invoices/generate?date=2026-07-01", nil)
	if code != http.StatusOK {
		t.Fatalf("generate: %d %s", code, env.Message)
	}
	var result service.InvoiceRunResult
	decodeData(t, env, &result)
	if result.Due != 1 || result.Created != 1 {
		t.Fatalf("unexpected run: %+v", result)
	}

	code, env = s.do(t, http.MethodPost, "/api/admin/invoices/generate?date=2026-07-01", nil)
	if code != http.StatusOK {
		t.Fatalf("regenerate: %d", code)
	}
	decodeData(t, env, &result)
	if result.Created != 0 || result.Skipped != 1 {
		t.Fatalf("expected duplicate period to be skipped: %+v", result)
	}

	if code, _ := s.do(t, http.MethodPost, "/api/admin/invoices/generate?date=07/01/2026", nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", code)
	}

	code, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/invoices?solar_unit_id=%d&payment_status=pending", unitID), nil)
	if code != http.StatusOK {
		t.Fatalf("list invoices: %d", code)
	}
	var invoices []struct {
		ID                   uint64 `json:"id"`
		TotalEnergyGenerated string `json:"total_energy_generated"`
		UserID               string `json:"user_id"`
	}
	decodeData(t, env, &invoices)
	if len(invoices) != 1 || invoices[0].TotalEnergyGenerated != "730" || invoices[0].UserID != "user-1" {
		t.Fatalf("unexpected invoices: %+v", invoices)
	}
	if code, _ := s.do(t, http.MethodGet, fmt.Sprintf("/api/invoices/%d", invoices[0].ID), nil); code != http.StatusOK {
		t.Fatalf("get invoice: %d", code)
	}
	if code, _ := s.do(t, http.MethodGet, "/api/invoices/424242", nil); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}
