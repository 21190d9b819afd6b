package middleware

import (
	"log/slog"
	"strings"

	"postboard/config"
	"postboard/internal/delivery/api/response"
	deliverycontext "postboard/internal/delivery/context"
	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/domain/service"
	"postboard/internal/errors"
	"postboard/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	TokenService service.TokenService
	Config       *config.Config
	Metrics      *metrics.Metrics `optional:"true"`
	Logger       *slog.Logger
}

// AuthMiddleware admits requests carrying a valid bearer token in the
// configured header. It keeps no server-side session state.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	header   string
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	header := config.DefaultTokenHeader
	if params.Config != nil && params.Config.Auth.TokenHeader != "" {
		header = params.Config.Auth.TokenHeader
	}

	return &AuthMiddleware{
		tokenSvc: params.TokenService,
		header:   header,
		metrics:  params.Metrics,
		logger:   params.Logger,
	}
}

// Authenticate rejects the request with 401 unless the token verifies. Every
// verification failure gets the same response; the kind is only logged.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := strings.TrimSpace(c.Request().Header.Get(m.header))
		if token == "" {
			m.metrics.AuthRejected(metrics.ReasonMissingToken)

			return reject(c, domainerrors.ErrMissingToken)
		}

		userID, err := m.tokenSvc.Verify(token)
		if err != nil {
			reason := rejectionReason(err)
			m.metrics.AuthRejected(reason)
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
				Info("Token rejected", slog.String("reason", reason))

			return reject(c, domainerrors.ErrInvalidToken)
		}

		deliverycontext.SetUserID(c, userID)
		req := c.Request()
		ctx := deliverycontext.WithUserID(req.Context(), userID)
		if logger := deliverycontext.GetLogger(ctx); logger != nil {
			ctx = deliverycontext.WithLogger(ctx, logger.With(slog.String("user_id", userID.String())))
		}
		c.SetRequest(req.WithContext(ctx))

		return next(c)
	}
}

// GetUserID returns the user ID stored by Authenticate.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	return deliverycontext.GetUserID(c)
}

func reject(c echo.Context, appErr domainerrors.AppError) error {
	return response.Fail(c, appErr)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, service.ErrTokenExpired):
		return metrics.ReasonExpired
	case errors.Is(err, service.ErrTokenInvalidSignature):
		return metrics.ReasonInvalidSignature
	default:
		return metrics.ReasonMalformed
	}
}
