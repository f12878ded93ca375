package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/smartkiosk/shelfjudge/internal/catalog"
	"github.com/smartkiosk/shelfjudge/internal/database"
	"github.com/smartkiosk/shelfjudge/internal/judge"
	"github.com/smartkiosk/shelfjudge/internal/models"
	"github.com/smartkiosk/shelfjudge/internal/snapshots"
	"github.com/smartkiosk/shelfjudge/internal/vision"
)

const Version = "1.0.0"

type App struct {
	Catalog   *catalog.Store
	Engine    *judge.Engine
	Extractor *vision.Extractor
	Judgments *database.JudgmentRepository
	Snapshots *snapshots.Store
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

func (app *App) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:       "ok",
		Version:      Version,
		ProductCount: app.Catalog.Snapshot().ProductCount(),
	})
}

func (app *App) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	products := app.Catalog.Snapshot().Products()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(products),
		"products": products,
	})
}

func (app *App) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, ok := app.Catalog.GetProduct(id)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// TestJudgeHandler judges from detector output supplied in the request body,
// with no loadcell involved. Used to exercise the full billing flow.
func (app *App) TestJudgeHandler(w http.ResponseWriter, r *http.Request) {
	var req TestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	detections := toDetections(req.Detections)
	log.Info().
		Int("detections", len(detections)).
		Float64("deltaWeight", req.DeltaWeight).
		Msg("test judge request")

	useHandFilter := req.UseHandFilter == nil || *req.UseHandFilter

	var candidates []models.EnsembleResult
	switch {
	case len(req.SideDetections) > 0:
		candidates = app.Extractor.ProcessDualCamera(detections, toDetections(req.SideDetections))
	case useHandFilter:
		candidates = app.Extractor.ProcessSingleCamera(detections)
	default:
		candidates = rawCandidates(detections)
	}

	result := app.Engine.Judge(candidates, req.DeltaWeight)
	app.persistJudgment(r, result)
	writeJSON(w, http.StatusOK, NewJudgeResponse(result))
}

// SimulateHandler fabricates a judgment for a given product id and count.
func (app *App) SimulateHandler(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Count <= 0 {
		req.Count = 1
	}

	product, ok := app.Catalog.GetProduct(req.ProductID)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	deltaWeight := -(product.Weight * float64(req.Count))
	candidates := []models.EnsembleResult{{
		ClassID:            req.ProductID,
		ClassName:          product.Name,
		TopConfidence:      req.Confidence,
		SideConfidence:     req.Confidence,
		CombinedConfidence: req.Confidence,
		VoteCount:          2,
	}}

	result := app.Engine.Judge(candidates, deltaWeight)
	app.persistJudgment(r, result)
	writeJSON(w, http.StatusOK, NewJudgeResponse(result))
}

// JudgeHandler is the production path: the delta comes from loadcell
// readings. Vision inference happens outside this service, so candidates
// arrive empty here and the result degrades to no_detection unless a
// collaborator posts detections through /api/test.
func (app *App) JudgeHandler(w http.ResponseWriter, r *http.Request) {
	var req JudgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	judgmentReq := models.JudgmentRequest{
		SnapshotFolder:  req.SnapshotFolder,
		LoadcellWeights: req.LoadcellWeights,
		BaselineWeights: req.BaselineWeights,
		ZoneID:          req.ZoneID,
	}

	frameCount := 0
	if app.Snapshots != nil && req.SnapshotFolder != "" {
		if frames, err := app.Snapshots.List(req.SnapshotFolder); err == nil {
			frameCount = len(frames)
		}
	}

	log.Info().
		Str("snapshotFolder", req.SnapshotFolder).
		Int("frames", frameCount).
		Float64("totalDelta", judgmentReq.TotalDelta()).
		Msg("judge request")

	result := app.Engine.JudgeWithRequest(nil, judgmentReq)
	app.persistJudgment(r, result)
	writeJSON(w, http.StatusOK, NewJudgeResponse(result))
}

func (app *App) ListJudgmentsHandler(w http.ResponseWriter, r *http.Request) {
	if app.Judgments == nil {
		writeError(w, http.StatusServiceUnavailable, "judgment history not configured")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	records, err := app.Judgments.ListRecent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list judgments")
		writeError(w, http.StatusInternalServerError, "failed to list judgments")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(records),
		"judgments": records,
	})
}

// UploadSnapshotHandler stores one camera frame under the transaction
// folder. Multipart field name is "frame".
func (app *App) UploadSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	if app.Snapshots == nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot store not configured")
		return
	}
	folder := chi.URLParam(r, "folder")

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("frame")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing frame file")
		return
	}
	defer file.Close()

	name, err := app.Snapshots.Save(folder, header.Filename, file)
	if err != nil {
		log.Error().Err(err).Str("folder", folder).Msg("failed to save frame")
		writeError(w, http.StatusBadRequest, "failed to save frame")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"folder":   folder,
		"filename": name,
	})
}

func (app *App) ListSnapshotsHandler(w http.ResponseWriter, r *http.Request) {
	if app.Snapshots == nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot store not configured")
		return
	}
	folder := chi.URLParam(r, "folder")

	if !app.Snapshots.Exists(folder) {
		writeError(w, http.StatusNotFound, "snapshot folder not found")
		return
	}
	frames, err := app.Snapshots.List(folder)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list frames")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"folder": folder,
		"count":  len(frames),
		"frames": frames,
	})
}

// persistJudgment records the outcome for auditing. Persistence failures are
// logged, never surfaced to the caller.
func (app *App) persistJudgment(r *http.Request, result *models.JudgmentResult) {
	if app.Judgments == nil {
		return
	}
	record := database.NewJudgmentRecord(result)
	if err := app.Judgments.Insert(r.Context(), record); err != nil {
		log.Error().Err(err).Str("id", record.ID).Msg("failed to persist judgment")
	}
}

func toDetections(inputs []DetectionInput) []models.Detection {
	detections := make([]models.Detection, 0, len(inputs))
	for _, input := range inputs {
		detections = append(detections, input.ToDetection())
	}
	return detections
}

// rawCandidates skips the proximity filter: every non-hand detection becomes
// a candidate, top 5 by confidence.
func rawCandidates(detections []models.Detection) []models.EnsembleResult {
	var candidates []models.EnsembleResult
	for _, d := range detections {
		if d.IsHand() {
			continue
		}
		candidates = append(candidates, models.EnsembleResult{
			ClassID:            d.ClassID,
			ClassName:          d.ClassName,
			TopConfidence:      d.Confidence,
			SideConfidence:     0.0,
			CombinedConfidence: d.Confidence,
			VoteCount:          1,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CombinedConfidence > candidates[j].CombinedConfidence
	})
	if len(candidates) > vision.DefaultTopK {
		candidates = candidates[:vision.DefaultTopK]
	}
	return candidates
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
