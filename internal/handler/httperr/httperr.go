package httperr

import (
	"net/http"

	"booking-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(&gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// StatusOf maps an error category to its HTTP status.
func StatusOf(err error) int {
	switch {
	case errs.IsNotFound(err):
		return http.StatusNotFound
	case errs.IsExpiredState(err):
		return http.StatusGone
	case errs.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errs.IsConflict(err):
		return http.StatusConflict
	case errs.IsRetryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithCategory answers with the status of err's category. Client errors
// expose the error message; server errors never do.
func AbortWithCategory(c *gin.Context, err error) {
	status := StatusOf(err)
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		msg = "Internal server error"
	case http.StatusServiceUnavailable:
		c.Header("Retry-After", "1")
		msg = "Temporarily unavailable, retry the request"
	}
	AbortWithError(c, status, err, msg, nil)
}
