package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/ajira/core"
	"github.com/trezcool/ajira/core/community"
	"github.com/trezcool/ajira/core/interview"
	"github.com/trezcool/ajira/core/learning"
	"github.com/trezcool/ajira/core/quiz"
	"github.com/trezcool/ajira/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
)

type (
	// Response is the success envelope; Error is always null here.
	Response struct {
		Data    interface{} `json:"data"`
		Message string      `json:"message,omitempty"`
		Error   interface{} `json:"error"`
	}

	// ErrResponse is the failure body.
	ErrResponse struct {
		Detail string            `json:"detail"`
		Fields map[string]string `json:"fields,omitempty"`
	}
)

func jsonData(ctx echo.Context, code int, data interface{}, msg ...string) error {
	resp := Response{Data: data}
	if len(msg) > 0 {
		resp.Message = msg[0]
	}
	return ctx.JSON(code, resp)
}

// notFoundSentinels map domain lookup failures to 404s.
var notFoundSentinels = map[error]struct{}{
	user.ErrNotFound:                {},
	quiz.ErrNotFound:                {},
	learning.ErrContentNotFound:     {},
	community.ErrNotFound:           {},
	interview.ErrNotFound:           {},
	interview.ErrConnectionNotFound: {},
	interview.ErrMentorNotFound:     {},
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, debug bool, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		resp := ErrResponse{}

		cause := errors.Cause(err)
		if _, ok := notFoundSentinels[cause]; ok {
			cause = errHttpNotFound
		}

		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				resp.Detail = origErr.Message.(string)
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if msg, ok := origErr.Message.(string); ok {
				resp.Detail = msg
			} else {
				resp.Detail = http.StatusText(code)
			}
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				if translator != nil {
					fldErrs[vErr.Field()] = vErr.Translate(translator)
				} else {
					fldErrs[vErr.Field()] = vErr.Error()
				}
			}
			code = http.StatusBadRequest
			resp.Detail = "invalid input"
			resp.Fields = fldErrs
		case *core.ValidationError:
			code = http.StatusBadRequest
			resp.Detail = origErr.Error()
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				resp.Fields = fldErrs
				if resp.Detail == "" {
					resp.Detail = "invalid input"
				}
			}
		case *core.PermissionError:
			code = http.StatusForbidden
			resp.Detail = origErr.Error()
		default: // any other error is a server error
			code = http.StatusInternalServerError
			resp.Detail = http.StatusText(code)

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr.ID = claims.Subject
				usr.Name = claims.Name
				usr.Email = claims.Email
			}
			logger.Error(resp.Detail, errors.Wrap(err, resp.Detail), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if debug && code == http.StatusInternalServerError {
			resp.Detail = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, resp)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
