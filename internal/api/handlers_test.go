package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartkiosk/shelfjudge/internal/catalog"
	"github.com/smartkiosk/shelfjudge/internal/database"
	"github.com/smartkiosk/shelfjudge/internal/judge"
	"github.com/smartkiosk/shelfjudge/internal/snapshots"
	"github.com/smartkiosk/shelfjudge/internal/vision"
)

func newTestApp(t *testing.T, withHistory bool) *App {
	t.Helper()

	store := catalog.NewStore(catalog.NewDefault())
	app := &App{
		Catalog:   store,
		Engine:    judge.NewEngine(store, judge.Config{}),
		Extractor: vision.NewExtractor(vision.ExtractorConfig{}),
	}

	snapshotStore, err := snapshots.NewStore(t.TempDir())
	require.NoError(t, err)
	app.Snapshots = snapshotStore

	if withHistory {
		db, err := database.New(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		require.NoError(t, db.RunMigrations("../../migrations"))
		app.Judgments = database.NewJudgmentRepository(db)
	}
	return app
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestPing(t *testing.T) {
	router := NewRouter(newTestApp(t, false))
	rec := doRequest(t, router, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestHealth(t *testing.T) {
	router := NewRouter(newTestApp(t, false))
	rec := doRequest(t, router, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, Version, body["version"])
	assert.Equal(t, float64(50), body["productCount"])
}

func TestListProducts(t *testing.T) {
	router := NewRouter(newTestApp(t, false))
	rec := doRequest(t, router, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(50), body["count"])
	assert.Len(t, body["products"], 50)
}

func TestGetProduct(t *testing.T) {
	router := NewRouter(newTestApp(t, false))

	rec := doRequest(t, router, http.MethodGet, "/api/products/26", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "chickenmayo_rice", body["name"])

	rec = doRequest(t, router, http.MethodGet, "/api/products/9999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTestJudgeSingleProduct(t *testing.T) {
	router := NewRouter(newTestApp(t, false))

	rec := doRequest(t, router, http.MethodPost, "/api/test", TestRequest{
		Detections: []DetectionInput{
			{Xyxy: []float64{100, 100, 150, 150}, Conf: 0.9, Cls: 0, Name: "hand"},
			{Xyxy: []float64{130, 130, 180, 180}, Conf: 0.88, Cls: 26, Name: "chickenmayo_rice"},
		},
		DeltaWeight: -365.0,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "complete", body["status"])
	assert.Equal(t, float64(3500), body["totalPrice"])
	assert.Equal(t, float64(1), body["productCount"])
	assert.Equal(t, true, body["isRemoval"])
	assert.Equal(t, 0.93, body["confidence"])
	assert.Greater(t, body["timestamp"], 0.0)

	products, ok := body["products"].([]any)
	require.True(t, ok)
	require.Len(t, products, 1)
	product := products[0].(map[string]any)
	assert.Equal(t, float64(26), product["productId"])
	assert.Equal(t, "chickenmayo_rice", product["name"])
	assert.Equal(t, float64(1), product["count"])
	assert.Equal(t, float64(3500), product["unitPrice"])
	assert.Equal(t, float64(3500), product["totalPrice"])

	weightInfo, ok := body["weightInfo"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, -365.0, weightInfo["delta"])
	assert.Equal(t, 365.0, weightInfo["explained"])
	assert.Equal(t, 0.0, weightInfo["residual"])
}

func TestTestJudgeDualCamera(t *testing.T) {
	router := NewRouter(newTestApp(t, false))

	rec := doRequest(t, router, http.MethodPost, "/api/test", TestRequest{
		Detections: []DetectionInput{
			{Xyxy: []float64{100, 100, 150, 150}, Conf: 0.6, Cls: 26, Name: "chickenmayo_rice"},
		},
		SideDetections: []DetectionInput{
			{Xyxy: []float64{100, 100, 150, 150}, Conf: 0.7, Cls: 26, Name: "chickenmayo_rice"},
		},
		DeltaWeight: -365.0,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "complete", body["status"])
	assert.Equal(t, float64(3500), body["totalPrice"])
}

func TestTestJudgeWithoutHandFilter(t *testing.T) {
	router := NewRouter(newTestApp(t, false))

	off := false
	rec := doRequest(t, router, http.MethodPost, "/api/test", TestRequest{
		Detections: []DetectionInput{
			{Xyxy: []float64{100, 100, 150, 150}, Conf: 0.88, Cls: 26, Name: "chickenmayo_rice"},
		},
		DeltaWeight:   -365.0,
		UseHandFilter: &off,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "complete", decodeBody(t, rec)["status"])
}

func TestTestJudgeBadBody(t *testing.T) {
	router := NewRouter(newTestApp(t, false))

	req := httptest.NewRequest(http.MethodPost, "/api/test", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decodeBody(t, rec)["error"])
}

func TestSimulate(t *testing.T) {
	router := NewRouter(newTestApp(t, false))

	rec := doRequest(t, router, http.MethodPost, "/api/simulate", SimulateRequest{
		ProductID:  9,
		Count:      2,
		Confidence: 0.85,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "complete", body["status"])
	assert.Equal(t, float64(2400), body["totalPrice"])
	assert.Equal(t, float64(1), body["productCount"])
}

func TestSimulateUnknownProduct(t *testing.T) {
	router := NewRouter(newTestApp(t, false))

	rec := doRequest(t, router, http.MethodPost, "/api/simulate", SimulateRequest{
		ProductID: 9999,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJudgeDegradesWithoutDetections(t *testing.T) {
	router := NewRouter(newTestApp(t, false))

	rec := doRequest(t, router, http.MethodPost, "/api/judge", JudgeRequest{
		SnapshotFolder:  "snap-001",
		LoadcellWeights: []float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 100},
		BaselineWeights: []float64{100, 100, 282.5, 282.5, 100, 100, 100, 100, 100, 100},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "no_detection", body["status"])

	weightInfo := body["weightInfo"].(map[string]any)
	assert.Equal(t, -365.0, weightInfo["delta"])
}

func TestJudgeOutOfRangeZone(t *testing.T) {
	router := NewRouter(newTestApp(t, false))

	zone := -1
	rec := doRequest(t, router, http.MethodPost, "/api/judge", JudgeRequest{
		LoadcellWeights: []float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 100},
		BaselineWeights: []float64{100, 100, 282.5, 282.5, 100, 100, 100, 100, 100, 100},
		ZoneID:          &zone,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "no_detection", body["status"])
	assert.Equal(t, 0.0, body["weightInfo"].(map[string]any)["delta"])
}

func TestListJudgmentsUnconfigured(t *testing.T) {
	router := NewRouter(newTestApp(t, false))
	rec := doRequest(t, router, http.MethodGet, "/api/judgments", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestJudgmentHistory(t *testing.T) {
	router := NewRouter(newTestApp(t, true))

	rec := doRequest(t, router, http.MethodPost, "/api/simulate", SimulateRequest{
		ProductID:  26,
		Count:      1,
		Confidence: 0.9,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/judgments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])

	rec = doRequest(t, router, http.MethodGet, "/api/judgments?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSnapshotUploadAndList(t *testing.T) {
	router := NewRouter(newTestApp(t, false))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("frame", "top.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("frame-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/snapshots/tx-001", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "top.jpg", decodeBody(t, rec)["filename"])

	rec = doRequest(t, router, http.MethodGet, "/api/snapshots/tx-001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])

	rec = doRequest(t, router, http.MethodGet, "/api/snapshots/tx-missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
