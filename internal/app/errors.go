package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UpstreamError wraps a failure from one of the external providers (Google
// Calendar or GHL). The wrapped cause is for logs only; callers of the HTTP
// surface see a generic message.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func upstreamf(op string, err error) error {
	return &UpstreamError{Op: op, Err: err}
}

// Recovery converts panics into the generic 500 body instead of gin's default
// plain-text response.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("unhandled panic", zap.Any("error", r))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			}
		}()
		c.Next()
	}
}
