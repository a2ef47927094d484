package middleware

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/orderly/orders-api/internal/core/domain"
)

// Recorder receives one record per completed request.
type Recorder interface {
	Record(rec *domain.RequestRecord)
}

// RequestLog writes one structured line per request and forwards the same
// data to recorder when it is not nil. Errors are handed to the global error
// handler first so the logged status is the one the client saw.
func RequestLog(log zerolog.Logger, recorder Recorder) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		HandleError:   true,
		LogLatency:    true,
		LogRemoteIP:   true,
		LogMethod:     true,
		LogURI:        true,
		LogRoutePath:  true,
		LogRequestID:  true,
		LogUserAgent:  true,
		LogStatus:     true,
		LogError:      true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			rec := &domain.RequestRecord{
				RequestID:  v.RequestID,
				Method:     v.Method,
				Route:      v.RoutePath,
				URI:        RedactURI(v.URI),
				Status:     v.Status,
				Latency:    v.Latency,
				RemoteIP:   v.RemoteIP,
				UserAgent:  v.UserAgent,
				OccurredAt: v.StartTime,
			}
			if id, ok := c.Get(IdentityKey).(domain.Identity); ok {
				rec.UserID = id.UserID
			}
			if v.Error != nil {
				rec.Error = v.Error.Error()
			}

			event := log.Info()
			switch {
			case v.Status >= 500:
				event = log.Error()
			case v.Status >= 400:
				event = log.Warn()
			}
			event.
				Str("request_id", rec.RequestID).
				Str("method", rec.Method).
				Str("route", rec.Route).
				Str("uri", rec.URI).
				Int("status", rec.Status).
				Dur("latency", rec.Latency).
				Int64("user_id", rec.UserID).
				Str("remote_ip", rec.RemoteIP).
				Msg("request")

			if recorder != nil {
				recorder.Record(rec)
			}
			return nil
		},
	})
}
