package api

import (
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
)

// recovery turns a panic inside a handler into a 500 response instead
// of taking down the whole server, mirroring how the executor recovers
// a panicking node body without losing the rest of the run.
func recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("api: panic recovered: %v\n%s", r, debug.Stack())
				c.JSON(http.StatusInternalServerError, failure(errRecovered(r)))
				c.Abort()
			}
		}()
		c.Next()
	}
}

type recoveredError struct{ v interface{} }

func (e recoveredError) Error() string { return "internal server error" }

func errRecovered(v interface{}) error { return recoveredError{v} }

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()
		log.Printf("api: %s %s %d %s", c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
