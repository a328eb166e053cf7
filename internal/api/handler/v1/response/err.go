package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	Err            error  `json:"-"`
	HTTPStatusCode int    `json:"-"`
	StatusText     string `json:"status_text"`
	ErrorMsg       string `json:"error_message,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

func (e *Err) Error() string {
	return e.ErrorMsg
}

// RenderErr aborts the request with e. Server-side errors are logged.
func RenderErr(ctx *gin.Context, e *Err) {
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error(e.StatusText,
			zap.Error(e.Err),
			zap.String("path", ctx.FullPath()),
			zap.String("request_id", ctx.Writer.Header().Get("X-Request-ID")),
		)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func newErr(status int, err error) *Err {
	e := &Err{
		Err:            err,
		HTTPStatusCode: status,
		StatusText:     http.StatusText(status),
	}
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

func ErrBadRequest(err error) *Err {
	return newErr(http.StatusBadRequest, err)
}

func ErrNotFound(resource, field string, value any) *Err {
	return newErr(http.StatusNotFound, fmt.Errorf("%v with %v %v not found", resource, field, value))
}

func ErrWrongCredentials(err error) *Err {
	return newErr(http.StatusUnauthorized, err)
}

func ErrInvalidToken(err error) *Err {
	return newErr(http.StatusUnauthorized, err)
}

// ErrConflict carries a machine-readable reason next to the message.
func ErrConflict(err error, reason string) *Err {
	e := newErr(http.StatusConflict, err)
	e.Reason = reason
	return e
}

func ErrUnprocessable(err error) *Err {
	return newErr(http.StatusUnprocessableEntity, err)
}

// ErrBadGateway hides the upstream detail from the client.
func ErrBadGateway(err error, msg string) *Err {
	e := newErr(http.StatusBadGateway, err)
	e.ErrorMsg = msg
	return e
}

func ErrServiceUnavailable(err error) *Err {
	return newErr(http.StatusServiceUnavailable, err)
}

// ErrInternalServerError does not expose err to the client.
func ErrInternalServerError(err error) *Err {
	e := newErr(http.StatusInternalServerError, err)
	e.ErrorMsg = "internal server error"
	return e
}
