package response

// Error codes follow HTTP semantics; the envelope code equals the status.
const (
	CodeBadRequest         = 400
	CodeUnauthorized       = 401
	CodeForbidden          = 403
	CodeNotFound           = 404
	CodeTooLarge           = 413
	CodeServerError        = 500
	CodeServiceUnavailable = 503
	CodeGatewayTimeout     = 504
)

// CodeMsgMap holds the default msg per code.
var CodeMsgMap = map[int]string{
	CodeBadRequest:         "Bad Request",
	CodeUnauthorized:       "Unauthorized",
	CodeForbidden:          "Forbidden",
	CodeNotFound:           "Not Found",
	CodeTooLarge:           "Request Entity Too Large",
	CodeServerError:        "Internal Server Error",
	CodeServiceUnavailable: "Service Unavailable",
	CodeGatewayTimeout:     "Gateway Timeout",
}
