package router

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"teamdesk/docs"
	"teamdesk/internal/config"
	apperrors "teamdesk/internal/errors"
	"teamdesk/internal/handler"
	"teamdesk/internal/metrics"
)

// HeaderAuthToken carries the session token on protected routes.
const HeaderAuthToken = "x-auth-token"

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Tasks     *handler.TaskHandler
	Invoices  *handler.InvoiceHandler
	QuickLink *handler.QuickLinkHandler
	Clients   *handler.ClientHandler
	Health    *handler.HealthHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics, h Handlers) {
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler(logger)
	e.Binder = &StrictBinder{}
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, HeaderAuthToken},
	}))
	if m != nil {
		e.Use(m.Middleware())
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.GET("/health", h.Health.Health)
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)

	// Secured routes (require a session token)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		TokenLookup:    "header:" + HeaderAuthToken,
		ContextKey:     handler.SessionContextKey,
		ParseTokenFunc: h.Auth.ParseToken,
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Msg:  apperrors.ErrUnauthorized.Message,
				Code: apperrors.ErrUnauthorized.Code,
			}).SetInternal(err)
		},
	}))

	secured.GET("/auth/me", h.Auth.Me)
	secured.GET("/users", h.Users.ListUsers)

	secured.GET("/tasks", h.Tasks.ListTasks)
	secured.POST("/tasks", h.Tasks.CreateTask)
	secured.PUT("/tasks/:id", h.Tasks.UpdateTask)
	secured.PATCH("/tasks/:id/toggle", h.Tasks.ToggleTask)
	secured.DELETE("/tasks/:id", h.Tasks.DeleteTask)

	secured.GET("/invoices", h.Invoices.ListInvoices)
	secured.POST("/invoices", h.Invoices.CreateInvoice)
	secured.POST("/invoices/preview", h.Invoices.PreviewInvoice)
	secured.GET("/invoices/:id", h.Invoices.GetInvoice)
	secured.PUT("/invoices/:id", h.Invoices.UpdateInvoice)
	secured.DELETE("/invoices/:id", h.Invoices.DeleteInvoice)
	secured.POST("/invoices/:id/items", h.Invoices.AddInvoiceItem)
	secured.DELETE("/invoices/:id/items/:itemId", h.Invoices.RemoveInvoiceItem)

	secured.GET("/quicklinks", h.QuickLink.ListQuickLinks)
	secured.POST("/quicklinks", h.QuickLink.CreateQuickLink)
	secured.DELETE("/quicklinks/:id", h.QuickLink.DeleteQuickLink)

	secured.GET("/clients", h.Clients.ListClients)
	secured.POST("/clients", h.Clients.CreateClient)
	secured.DELETE("/clients/:id", h.Clients.DeleteClient)
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				if v.Status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// StrictBinder decodes JSON bodies rejecting unknown fields. Other content
// types fall back to echo.DefaultBinder.
type StrictBinder struct {
	echo.DefaultBinder
}

// Bind implements echo.Binder.
func (b *StrictBinder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()
	if req.ContentLength == 0 {
		return nil
	}
	ctype := req.Header.Get(echo.HeaderContentType)
	if ctype != "" && !strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		return b.DefaultBinder.Bind(i, c)
	}

	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(i); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	if dec.More() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(errors.New("unexpected data after JSON body"))
	}
	return nil
}
