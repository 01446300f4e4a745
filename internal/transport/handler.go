package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-chart-digitizer/internal/config"
	apperrors "go-chart-digitizer/internal/errors"
	"go-chart-digitizer/internal/logger"
	"go-chart-digitizer/internal/service"
	"go-chart-digitizer/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewHandler builds the HTTP routing for the digitizer API
func NewHandler(svc service.ChartForecastService, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.POST("/forecast", forecastChart(svc, cfg))
	r.POST("/forecast/detailed", forecastChartDetailed(svc, cfg))

	return r
}

func forecastChart(svc service.ChartForecastService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing chart forecast request")

		req, ok := bindForecastRequest(c)
		if !ok {
			return
		}

		response, err := svc.Forecast(ctx, req)
		if err != nil {
			respondPipelineError(c, req.URL, err)
			return
		}

		logger.WithFields(logrus.Fields{
			"url":                req.URL,
			"profile":            response.Trace.Profile,
			"point_count":        response.Trace.PointCount,
			"ensemble":           response.Forecast.Ensemble,
			"confidence":         response.Forecast.Confidence,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Info("Chart forecast completed successfully")

		c.JSON(http.StatusOK, response)
	}
}

func forecastChartDetailed(svc service.ChartForecastService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		req, ok := bindForecastRequest(c)
		if !ok {
			return
		}

		response, err := svc.ForecastDetailed(ctx, req)
		if err != nil {
			respondPipelineError(c, req.URL, err)
			return
		}

		c.JSON(http.StatusOK, response)
	}
}

// bindForecastRequest parses and source-validates the request body
func bindForecastRequest(c *gin.Context) (models.ForecastRequest, bool) {
	var req models.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"ip": c.ClientIP(),
		}).Error("Invalid request format")
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return req, false
	}
	return req, true
}

// respondPipelineError maps pipeline errors onto HTTP status codes
func respondPipelineError(c *gin.Context, imageURL string, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		err = apperrors.NewTimeoutError("chart processing timeout", err)
	}

	logger.WithError(err).WithFields(logrus.Fields{
		"url": imageURL,
		"ip":  c.ClientIP(),
	}).Error("Chart forecast failed")

	respondError(c, apperrors.GetStatusCode(err), "chart forecast failed", err)
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
