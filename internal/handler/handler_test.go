package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"pair-engine/internal/model"
	"pair-engine/internal/parsing"
	"pair-engine/internal/store"
)

const sampleCSV = `EmpID, ProjectID, DateFrom, DateTo
1, 10, 2023-01-01, 2023-01-05
2, 10, 2023-01-03, 2023-01-10
3, 10, 2023/01/09, not-a-date
4, 11
`

func newTestHandler(t *testing.T, maxUpload int) (*Handler, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	h := New(Options{
		Parser:         &parsing.Parser{Today: func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }},
		Store:          mem,
		Logger:         zerolog.Nop(),
		MaxUploadBytes: maxUpload,
		CORSOrigin:     "*",
	})
	return h, mem
}

func do(h *Handler, method, uri string, body []byte, contentType string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if contentType != "" {
		req.Header.SetContentType(contentType)
	}
	if body != nil {
		req.SetBody(body)
	}

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	h.Handle(ctx)
	return ctx
}

func upload(t *testing.T, h *Handler, field, content string) *fasthttp.RequestCtx {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, "employees.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return do(h, fasthttp.MethodPost, routeParse, buf.Bytes(), w.FormDataContentType())
}

func decode[T any](t *testing.T, ctx *fasthttp.RequestCtx) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &v), string(ctx.Response.Body()))
	return v
}

func TestParseThenAnalyze(t *testing.T) {
	h, _ := newTestHandler(t, 1_000_000)

	ctx := upload(t, h, formFileField, sampleCSV)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	parsed := decode[model.ParseResponse](t, ctx)
	assert.NotEmpty(t, parsed.BatchID)
	assert.Equal(t, 2, parsed.TotalValid)
	assert.Equal(t, 2, parsed.TotalErrors)
	assert.Len(t, parsed.Echo, 4)
	require.Len(t, parsed.Errors, 2)
	assert.Equal(t, 4, parsed.Errors[0].LineNumber)
	assert.Equal(t, model.ErrInvalidDate, parsed.Errors[0].Message)
	assert.Equal(t, 5, parsed.Errors[1].LineNumber)

	ctx = do(h, fasthttp.MethodGet, routeAnalyze, nil, "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "*", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))

	res := decode[model.AnalyzeResponse](t, ctx)
	assert.Equal(t, parsed.BatchID, res.BatchID)
	assert.Equal(t, 1, res.EmployeeID1)
	assert.Equal(t, 2, res.EmployeeID2)
	assert.Equal(t, 3, res.TotalDaysWorkedTogether)
	assert.Equal(t, []model.PairProjectDetail{
		{EmployeeID1: 1, EmployeeID2: 2, ProjectID: 10, DaysWorkedTogether: 3},
	}, res.Details)
}

func TestAnalyzeWireFormat(t *testing.T) {
	h, mem := newTestHandler(t, 0)
	_, err := mem.Store(context.Background(), []model.Assignment{
		{EmployeeID: 1, ProjectID: 1, DateFrom: model.NewDate(2023, 1, 1), DateTo: model.NewDate(2023, 1, 2)},
		{EmployeeID: 2, ProjectID: 2, DateFrom: model.NewDate(2023, 1, 1), DateTo: model.NewDate(2023, 1, 2)},
	})
	require.NoError(t, err)

	ctx := do(h, fasthttp.MethodGet, routeAnalyze, nil, "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var raw map[string]any
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &raw))
	assert.Equal(t, 0.0, raw["employeeId1"])
	assert.Equal(t, 0.0, raw["employeeId2"])
	assert.Equal(t, 0.0, raw["totalDaysWorkedTogether"])
	assert.Equal(t, []any{}, raw["details"])
}

func TestAnalyzeWithoutUpload(t *testing.T) {
	h, _ := newTestHandler(t, 0)
	ctx := do(h, fasthttp.MethodGet, routeAnalyze, nil, "")
	require.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())

	e := decode[model.ErrorResponse](t, ctx)
	assert.Contains(t, e.Message, "No parsed data available")
}

func TestUploadWithOnlyInvalidRowsLeavesNothingToAnalyze(t *testing.T) {
	h, _ := newTestHandler(t, 0)
	ctx := upload(t, h, formFileField, "1,2\n")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, 0, decode[model.ParseResponse](t, ctx).TotalValid)

	ctx = do(h, fasthttp.MethodGet, routeAnalyze, nil, "")
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestParseRequiresFile(t *testing.T) {
	h, _ := newTestHandler(t, 0)

	ctx := upload(t, h, "other", sampleCSV)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())

	ctx = upload(t, h, formFileField, "")
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())

	ctx = do(h, fasthttp.MethodPost, routeParse, []byte("1,2,3,4"), "text/csv")
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, "File is required.", decode[model.ErrorResponse](t, ctx).Message)
}

func TestParseRejectsOversizedFile(t *testing.T) {
	h, _ := newTestHandler(t, 10)
	ctx := upload(t, h, formFileField, sampleCSV)
	assert.Equal(t, fasthttp.StatusRequestEntityTooLarge, ctx.Response.StatusCode())
}

func TestClear(t *testing.T) {
	h, mem := newTestHandler(t, 0)
	ctx := upload(t, h, formFileField, sampleCSV)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	ctx = do(h, fasthttp.MethodDelete, routeFiles, nil, "")
	assert.Equal(t, fasthttp.StatusNoContent, ctx.Response.StatusCode())

	has, err := mem.HasData(context.Background())
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRouting(t *testing.T) {
	h, _ := newTestHandler(t, 0)

	assert.Equal(t, fasthttp.StatusMethodNotAllowed, do(h, fasthttp.MethodGet, routeParse, nil, "").Response.StatusCode())
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, do(h, fasthttp.MethodPost, routeAnalyze, nil, "").Response.StatusCode())
	assert.Equal(t, fasthttp.StatusNotFound, do(h, fasthttp.MethodGet, "/nope", nil, "").Response.StatusCode())
	assert.Equal(t, fasthttp.StatusNoContent, do(h, fasthttp.MethodOptions, routeAnalyze, nil, "").Response.StatusCode())

	ctx := do(h, fasthttp.MethodGet, routeHealth, nil, "")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"status":"ok"}`, string(ctx.Response.Body()))
}
