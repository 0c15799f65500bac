package handler

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"pair-engine/internal/engine"
	"pair-engine/internal/model"
	"pair-engine/internal/parsing"
	"pair-engine/internal/store"
	"pair-engine/internal/telemetry"
)

const (
	routeParse   = "/api/files/parse"
	routeFiles   = "/api/files"
	routeAnalyze = "/api/analyze"
	routeHealth  = "/healthz"
	routeMetrics = "/metrics"

	formFileField = "file"
)

type Options struct {
	Parser         *parsing.Parser
	Store          store.Store
	Metrics        *telemetry.Metrics
	Logger         zerolog.Logger
	MaxUploadBytes int
	CORSOrigin     string
}

// Handler serves the upload and analyze API.
type Handler struct {
	parser         *parsing.Parser
	store          store.Store
	metrics        *telemetry.Metrics
	logger         zerolog.Logger
	maxUploadBytes int
	corsOrigin     string
	handle         fasthttp.RequestHandler
	serveMetrics   fasthttp.RequestHandler
}

func New(opts Options) *Handler {
	h := &Handler{
		parser:         opts.Parser,
		store:          opts.Store,
		metrics:        opts.Metrics,
		logger:         opts.Logger.With().Str("component", "http").Logger(),
		maxUploadBytes: opts.MaxUploadBytes,
		corsOrigin:     opts.CORSOrigin,
	}
	if h.parser == nil {
		h.parser = &parsing.Parser{}
	}
	if h.metrics == nil {
		h.metrics = telemetry.New()
	}
	h.serveMetrics = h.metrics.Handler()
	h.handle = h.metrics.Middleware(h.route, routeLabel, h.logger)
	return h
}

// Handle is the fasthttp entry point.
func (h *Handler) Handle(ctx *fasthttp.RequestCtx) {
	h.handle(ctx)
}

func (h *Handler) route(ctx *fasthttp.RequestCtx) {
	h.setCORS(ctx)
	if ctx.IsOptions() {
		ctx.SetStatusCode(fasthttp.StatusNoContent)
		return
	}

	switch string(ctx.Path()) {
	case routeParse:
		if !ctx.IsPost() {
			methodNotAllowed(ctx)
			return
		}
		h.handleParse(ctx)
	case routeFiles:
		if !ctx.IsDelete() {
			methodNotAllowed(ctx)
			return
		}
		h.handleClear(ctx)
	case routeAnalyze:
		if !ctx.IsGet() {
			methodNotAllowed(ctx)
			return
		}
		h.handleAnalyze(ctx)
	case routeHealth:
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	case routeMetrics:
		h.serveMetrics(ctx)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
	}
}

func (h *Handler) handleParse(ctx *fasthttp.RequestCtx) {
	fh, err := ctx.FormFile(formFileField)
	if err != nil || fh.Size == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "File is required.")
		return
	}
	if h.maxUploadBytes > 0 && fh.Size > int64(h.maxUploadBytes) {
		writeError(ctx, fasthttp.StatusRequestEntityTooLarge,
			fmt.Sprintf("File exceeds the %d byte upload limit.", h.maxUploadBytes))
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.parseFailed(ctx, err)
		return
	}
	defer f.Close()

	res, err := h.parser.Parse(ctx, f)
	if err != nil {
		h.parseFailed(ctx, err)
		return
	}

	batch, err := h.store.Store(ctx, res.Valid)
	if err != nil {
		h.parseFailed(ctx, err)
		return
	}

	h.metrics.ObserveRows(len(res.Valid), len(res.Errors))
	h.logger.Info().
		Str("batch_id", batch.ID).
		Str("file", fh.Filename).
		Int("valid", len(res.Valid)).
		Int("rejected", len(res.Errors)).
		Msg("upload parsed")

	writeJSON(ctx, fasthttp.StatusOK, model.ParseResponse{
		BatchID:     batch.ID,
		TotalValid:  len(res.Valid),
		TotalErrors: len(res.Errors),
		Echo:        res.Rows,
		Errors:      res.Errors,
	})
}

func (h *Handler) parseFailed(ctx *fasthttp.RequestCtx, err error) {
	h.logger.Error().Err(err).Msg("parse failed")
	writeError(ctx, fasthttp.StatusInternalServerError, "Parse failed: "+err.Error())
}

func (h *Handler) handleAnalyze(ctx *fasthttp.RequestCtx) {
	batch, err := h.store.RetrieveOrEmpty(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("load batch")
		writeError(ctx, fasthttp.StatusInternalServerError, "Could not load parsed data.")
		return
	}
	if batch.Empty() {
		writeError(ctx, fasthttp.StatusBadRequest, "No parsed data available. Please upload and parse a CSV file first.")
		return
	}

	result := engine.Analyze(batch.Assignments)
	h.metrics.ObserveAnalysis(result.Found())
	h.logger.Info().
		Str("batch_id", batch.ID).
		Int("employee_id_1", result.EmployeeID1).
		Int("employee_id_2", result.EmployeeID2).
		Int("days", result.TotalDaysWorkedTogether).
		Msg("analysis complete")

	writeJSON(ctx, fasthttp.StatusOK, model.AnalyzeResponse{
		BatchID:    batch.ID,
		PairResult: result,
	})
}

func (h *Handler) handleClear(ctx *fasthttp.RequestCtx) {
	if err := h.store.Clear(ctx); err != nil {
		h.logger.Error().Err(err).Msg("clear batch")
		writeError(ctx, fasthttp.StatusInternalServerError, "Could not clear parsed data.")
		return
	}
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

func (h *Handler) setCORS(ctx *fasthttp.RequestCtx) {
	if h.corsOrigin == "" {
		return
	}
	ctx.Response.Header.Set("Access-Control-Allow-Origin", h.corsOrigin)
	ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type")
}

func routeLabel(ctx *fasthttp.RequestCtx) string {
	switch p := string(ctx.Path()); p {
	case routeParse, routeFiles, routeAnalyze, routeHealth, routeMetrics:
		return p
	default:
		return "unmatched"
	}
}

func methodNotAllowed(ctx *fasthttp.RequestCtx) {
	writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	if err := json.NewEncoder(ctx).Encode(v); err != nil {
		ctx.Error(`{"status":500,"message":"encode response"}`, fasthttp.StatusInternalServerError)
	}
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, model.ErrorResponse{
		Status:  status,
		Message: message,
	})
}
