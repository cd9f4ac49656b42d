package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-api/internal/domain"
	resp "recipe-api/internal/transport/http/response"
)

const KeyPrincipal = "principal"

// Authenticator resolves request credentials to a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*domain.Principal, error)
	ParseToken(tok string) (*domain.Principal, error)
}

// Authenticate accepts HTTP Basic or a Bearer token and stores the principal
// under KeyPrincipal. Anything else is answered with 401.
func Authenticate(a Authenticator, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			p   *domain.Principal
			err error
		)
		ah := c.GetHeader("Authorization")
		if tok, ok := strings.CutPrefix(ah, "Bearer "); ok {
			p, err = a.ParseToken(strings.TrimSpace(tok))
		} else if email, pw, ok := c.Request.BasicAuth(); ok {
			p, err = a.Authenticate(c.Request.Context(), email, pw)
		} else {
			resp.Abort(c, resp.CodeUnauthorized, "authentication required")
			return
		}

		switch {
		case err == nil:
		case errors.Is(err, domain.ErrUnauthenticated):
			resp.Abort(c, resp.CodeUnauthorized, "bad credentials")
			return
		default:
			l.Error("authenticate", zap.String("rid", c.GetString(KeyRequestID)), zap.Error(err))
			resp.Abort(c, resp.CodeServerError, "")
			return
		}
		c.Set(KeyPrincipal, p)
		c.Next()
	}
}

// PrincipalFrom returns the request's principal, nil when unauthenticated.
func PrincipalFrom(c *gin.Context) *domain.Principal {
	v, ok := c.Get(KeyPrincipal)
	if !ok {
		return nil
	}
	p, _ := v.(*domain.Principal)
	return p
}
