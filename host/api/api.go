// Package api serves the latest robot reading over HTTP.
package api

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"robosense/host/telemetry"
	"robosense/protocol"
)

// Source provides what the handlers report.
type Source interface {
	Get() (telemetry.Reading, bool)
	Stats() telemetry.Stats
}

func NewRouter(src Source, logger logrus.FieldLogger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logger))
	router.GET("/healthz", getHealth)
	router.GET("/readings/latest", getLatest(src))
	router.GET("/stats", getStats(src))

	return router
}

func getHealth(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": protocol.Version,
	})
}

func getLatest(src Source) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := src.Get()
		if !ok {
			c.IndentedJSON(http.StatusNotFound, gin.H{"error": "no reading received yet"})
			return
		}
		c.IndentedJSON(http.StatusOK, r.Snapshot())
	}
}

func getStats(src Source) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.IndentedJSON(http.StatusOK, src.Stats())
	}
}

func ginLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// other handler can change c.Path so:
		path := c.Request.URL.Path
		start := time.Now()
		c.Next()
		stop := time.Since(start)
		latency := int(math.Ceil(float64(stop.Nanoseconds()) / 1000000.0))
		statusCode := c.Writer.Status()

		entry := logger.WithFields(logrus.Fields{
			"statusCode": statusCode,
			"latency":    latency,
			"method":     c.Request.Method,
			"path":       path,
		})

		if len(c.Errors) > 0 {
			entry.Error(c.Errors.ByType(gin.ErrorTypePrivate).String())
			return
		}
		msg := fmt.Sprintf("%s %s %d (%dms)", c.Request.Method, path, statusCode, latency)
		if statusCode >= http.StatusInternalServerError {
			entry.Error(msg)
		} else {
			entry.Debug(msg)
		}
	}
}
