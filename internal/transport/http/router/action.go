package router

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-api/internal/domain"
	mdw "recipe-api/internal/transport/http/middleware"
	resp "recipe-api/internal/transport/http/response"
)

// Binder picks where an action's input comes from.
type Binder string

const (
	BindJSON Binder = "json" // request body
	BindNone Binder = "none" // handler reads c.Param / c.Query itself
)

// AErr is an error that already knows its status.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }

type validator interface{ Validate() error }

// Action describes one endpoint: I is the bound input, O the JSON output.
// An I with a Validate method is validated after binding. An O of struct{}
// answers with an empty body.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Auth    bool     // principal required
	Roles   []string // any of, when set
	Status  int      // success status, 200 by default
	Handler func(c *gin.Context, p *domain.Principal, in *I) (O, error)
}

// RegisterAction mounts a on g, at a.Path and a.Path+"/".
func RegisterAction[I any, O any](g *gin.RouterGroup, l *zap.Logger, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}

	h := func(c *gin.Context) {
		p := mdw.PrincipalFrom(c)
		if a.Auth {
			if p == nil {
				resp.Abort(c, resp.CodeUnauthorized, "authentication required")
				return
			}
			if len(a.Roles) > 0 && !hasAnyRole(p, a.Roles) {
				resp.Abort(c, resp.CodeForbidden, "")
				return
			}
		}

		var in I
		if a.Binder == BindJSON {
			if err := c.ShouldBindJSON(&in); err != nil {
				writeError(c, l, bindError(err))
				return
			}
		}
		if v, ok := any(&in).(validator); ok {
			if err := v.Validate(); err != nil {
				writeError(c, l, err)
				return
			}
		}

		out, err := a.Handler(c, p, &in)
		if err != nil {
			writeError(c, l, err)
			return
		}
		if _, empty := any(out).(struct{}); empty {
			c.Status(status)
			return
		}
		c.JSON(status, out)
	}

	paths := []string{a.Path}
	if !strings.HasSuffix(a.Path, "/") {
		paths = append(paths, a.Path+"/")
	}
	for _, path := range paths {
		g.Handle(strings.ToUpper(a.Method), path, h)
	}
}

func hasAnyRole(p *domain.Principal, roles []string) bool {
	for _, r := range roles {
		if p.HasRole(r) {
			return true
		}
	}
	return false
}

func bindError(err error) error {
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return &AErr{Code: resp.CodeTooLarge, Msg: "request body too large", Err: err}
	case errors.Is(err, io.EOF):
		return BadRequest("request body is required")
	default:
		return &AErr{Code: resp.CodeBadRequest, Msg: "malformed request body", Err: err}
	}
}

// writeError maps the domain taxonomy onto status codes. Unclassified errors
// are logged and answered with a bare 500.
func writeError(c *gin.Context, l *zap.Logger, err error) {
	var (
		ae *AErr
		ve *domain.ValidationError
	)
	switch {
	case errors.As(err, &ae):
		if ae.Code >= http.StatusInternalServerError {
			logFailure(c, l, err)
			resp.Abort(c, ae.Code, "")
			return
		}
		resp.Abort(c, ae.Code, ae.Msg)
	case errors.As(err, &ve):
		c.AbortWithStatusJSON(http.StatusBadRequest, resp.Invalid(ve.Fields))
	case errors.Is(err, domain.ErrDuplicateEmail):
		resp.Abort(c, resp.CodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		resp.Abort(c, resp.CodeUnauthorized, "bad credentials")
	case errors.Is(err, domain.ErrForbidden):
		resp.Abort(c, resp.CodeForbidden, "")
	case errors.Is(err, domain.ErrNotFound):
		resp.Abort(c, resp.CodeNotFound, "")
	case errors.Is(err, context.DeadlineExceeded):
		resp.Abort(c, resp.CodeGatewayTimeout, "timeout")
	default:
		logFailure(c, l, err)
		resp.Abort(c, resp.CodeServerError, "")
	}
}

func logFailure(c *gin.Context, l *zap.Logger, err error) {
	l.Error("request failed",
		zap.String("rid", c.GetString(mdw.KeyRequestID)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
}
