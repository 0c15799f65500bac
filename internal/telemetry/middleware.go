package telemetry

import (
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// Middleware records request metrics and writes one log line per request.
// route maps the request to a bounded label so unknown paths do not explode
// the label set.
func (m *Metrics) Middleware(next fasthttp.RequestHandler, route func(*fasthttp.RequestCtx) string, logger zerolog.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		elapsed := time.Since(start)

		method := string(ctx.Method())
		r := route(ctx)
		status := ctx.Response.StatusCode()

		m.HTTPRequests.WithLabelValues(method, r, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(method, r).Observe(elapsed.Seconds())

		logger.Debug().
			Str("method", method).
			Str("path", string(ctx.Path())).
			Int("status", status).
			Dur("duration", elapsed).
			Msg("request")
	}
}
