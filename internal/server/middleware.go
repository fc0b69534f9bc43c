package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/colonyops/toaster/internal/core/logging"
	"github.com/colonyops/toaster/pkg/iojson"
)

// requestLogger logs one line per request and carries the chi request id
// into the context so handler logs pick it up.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if reqID := middleware.GetReqID(ctx); reqID != "" {
			ctx = logging.WithRequestID(ctx, reqID)
			r = r.WithContext(ctx)
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.Debug().
			Ctx(ctx).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// notifyLimit rejects toast creation beyond server.notify_rate.
func (s *Server) notifyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.allowNotify() {
			s.log.Debug().Ctx(r.Context()).Msg("notify rate limited")
			iojson.RespondError(w, http.StatusTooManyRequests, "rate limited", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowNotify() bool {
	return s.limiter == nil || s.limiter.Allow()
}
