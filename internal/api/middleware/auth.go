package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/orderly/orders-api/internal/api/metrics"
	"github.com/orderly/orders-api/internal/core/domain"
	"github.com/orderly/orders-api/internal/core/ports"
)

// IdentityKey is the echo context key holding the caller's domain.Identity.
const IdentityKey = "identity"

const (
	msgTokenMissing = "authentication token not provided"
	msgTokenInvalid = "invalid or expired token"
)

// Auth verifies the bearer token and injects the caller's identity into both
// the echo context and the request context. The rejection cause is only
// logged at debug level.
func Auth(verifier ports.TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			token := ExtractToken(req.Header, c.QueryParams())
			if token == "" {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, msgTokenMissing)
			}

			id, err := verifier.Verify(token)
			if err != nil {
				metrics.TokenRejectionsTotal.WithLabelValues("invalid").Inc()
				log.Debug().Err(err).Str("path", c.Path()).Msg("token rejected")
				return echo.NewHTTPError(http.StatusUnauthorized, msgTokenInvalid)
			}

			c.Set(IdentityKey, *id)
			c.SetRequest(req.WithContext(domain.WithIdentity(req.Context(), *id)))

			return next(c)
		}
	}
}
