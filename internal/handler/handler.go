package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"teamdesk/internal/auth"
	apperrors "teamdesk/internal/errors"
)

// SessionContextKey is where the session middleware stores *auth.Session.
const SessionContextKey = "session"

// MessageResponse is returned by operations without a body of their own.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// respondError converts a domain error into an *echo.HTTPError carrying an
// errors.ErrorResponse body.
func respondError(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

// bind decodes and validates the request body into req.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
				Msg:  bindMessage(he),
				Code: "INVALID_REQUEST",
			}).SetInternal(err)
		}
		return respondError(apperrors.Validation("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return respondError(apperrors.Validation(validationMessage(err)))
	}
	return nil
}

func bindMessage(he *echo.HTTPError) string {
	if he.Internal != nil {
		return "invalid request body: " + he.Internal.Error()
	}
	if msg, ok := he.Message.(string); ok {
		return msg
	}
	return "invalid request body"
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "email":
			parts = append(parts, fe.Field()+" must be a valid email")
		case "url":
			parts = append(parts, fe.Field()+" must be a valid URL")
		case "oneof":
			parts = append(parts, fe.Field()+" must be one of: "+fe.Param())
		case "min", "max":
			parts = append(parts, fe.Field()+" must satisfy "+fe.Tag()+"="+fe.Param())
		default:
			parts = append(parts, fe.Field()+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}

// pathID parses the named path parameter as a UUID.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Msg:  "invalid " + name,
			Code: "INVALID_UUID",
		})
	}
	return id, nil
}

// checkBodyID rejects a body whose id or _id disagrees with the path id.
func checkBodyID(pathID uuid.UUID, bodyIDs ...string) error {
	for _, raw := range bodyIDs {
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil || id != pathID {
			return respondError(apperrors.Validation("body id does not match the path id"))
		}
	}
	return nil
}

// sessionFrom returns the session placed on the context by the auth middleware.
func sessionFrom(c echo.Context) (*auth.Session, error) {
	session, ok := c.Get(SessionContextKey).(*auth.Session)
	if !ok || session == nil {
		return nil, respondError(apperrors.ErrUnauthorized)
	}
	return session, nil
}

// ErrorHandler renders every error as an errors.ErrorResponse.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := errorBody(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				slog.Int("status", status),
				slog.String("error", err.Error()),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Error("write error response", slog.String("error", err.Error()))
		}
	}
}

func errorBody(err error) (int, apperrors.ErrorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch msg := he.Message.(type) {
		case apperrors.ErrorResponse:
			return he.Code, msg
		case string:
			return he.Code, apperrors.ErrorResponse{Msg: msg, Code: statusCode(he.Code)}
		default:
			return he.Code, apperrors.ErrorResponse{Msg: http.StatusText(he.Code), Code: statusCode(he.Code)}
		}
	}
	httpErr := apperrors.MapErrorToHTTP(err)
	return httpErr.StatusCode, httpErr.ToErrorResponse()
}

// statusCode turns 404 into "NOT_FOUND".
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
