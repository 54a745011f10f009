package middleware

import (
	"log/slog"
	"net/http"

	"booking-core/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler attached without writing a
// response. Errors without a prepared response are answered by category.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		last := c.Errors.Last()
		if resp, ok := last.Meta.(httperr.Response); ok {
			c.JSON(resp.Status, resp)
			return
		}
		httperr.AbortWithCategory(c, last.Err)
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("recovered from panic", "error", err, "path", c.Request.URL.Path)

				resp := httperr.Response{Status: http.StatusInternalServerError}
				resp.Error.Message = "Internal server error"

				c.JSON(http.StatusInternalServerError, resp)
				c.Abort()
			}
		}()
		c.Next()
	}
}
