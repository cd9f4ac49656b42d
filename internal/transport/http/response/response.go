package response

import (
	"github.com/gin-gonic/gin"

	"recipe-api/internal/domain"
)

// Realm is advertised on every 401.
const Realm = `Basic realm="recipes"`

// Resp is the error envelope. Successful calls answer with the bare payload.
type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New never leaves data as null.
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

// Error builds a failure envelope; an empty customMsg falls back to the code's default.
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

// Invalid carries field failures under data.errors.
func Invalid(fields []domain.FieldError) Resp {
	return New(CodeBadRequest, "validation failed", gin.H{"errors": fields})
}

// Abort writes Error(code, msg) with code as the HTTP status.
func Abort(c *gin.Context, code int, msg string) {
	if code == CodeUnauthorized {
		c.Header("WWW-Authenticate", Realm)
	}
	c.AbortWithStatusJSON(code, Error(code, msg))
}
