package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries the server settings plus every tuning parameter of the
// digitization pipeline. All values come from the environment with sane
// defaults; the color-profile registry may additionally be loaded from a
// YAML file pointed at by COLOR_PROFILES_PATH.
type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	MaxRequestBodySize int64

	// Chart analysis tuning
	MarginFraction    float64 // fraction trimmed from each image edge to form the chart bounds
	ColumnStride      int     // column sampling stride for trace extraction
	ColorSampleStride int     // coarse stride for dominant-color sampling
	OutlierZThreshold float64 // z-score above which a trace point is dropped
	OutlierMinPoints  int     // below this count outlier rejection is skipped
	SmoothWindow      int     // centered moving-average window over trace y values
	MinTracePoints    int     // hard minimum of extracted points before filtering
	DefaultProfile    string  // fallback profile when dominant-color sampling finds nothing
	ColorProfilesPath string  // optional YAML registry of color profiles

	// Forecast tuning
	PolynomialDegree int // degree of the polynomial model
	RecentWindow     int // point count for the moving-average trend model

	// Image source
	StorageBackend   string // "http", "local" or "azure"
	AzureAccountName string
	AzureAccountKey  string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB

		MarginFraction:    parseFloatOrDefault("MARGIN_FRACTION", 0.10),
		ColumnStride:      int(parseIntOrDefault("COLUMN_STRIDE", 1)),
		ColorSampleStride: int(parseIntOrDefault("COLOR_SAMPLE_STRIDE", 8)),
		OutlierZThreshold: parseFloatOrDefault("OUTLIER_Z_THRESHOLD", 2.5),
		OutlierMinPoints:  int(parseIntOrDefault("OUTLIER_MIN_POINTS", 10)),
		SmoothWindow:      int(parseIntOrDefault("SMOOTH_WINDOW", 5)),
		MinTracePoints:    int(parseIntOrDefault("MIN_TRACE_POINTS", 5)),
		DefaultProfile:    getEnvOrDefault("DEFAULT_COLOR_PROFILE", "blue"),
		ColorProfilesPath: os.Getenv("COLOR_PROFILES_PATH"),

		PolynomialDegree: int(parseIntOrDefault("POLYNOMIAL_DEGREE", 2)),
		RecentWindow:     int(parseIntOrDefault("RECENT_WINDOW", 30)),

		StorageBackend:   getEnvOrDefault("STORAGE_BACKEND", "http"),
		AzureAccountName: os.Getenv("AZURE_ACCOUNT_NAME"),
		AzureAccountKey:  os.Getenv("AZURE_ACCOUNT_KEY"),
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 || cfg.ImageFetchTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s)",
			cfg.RequestTimeout, cfg.ImageFetchTimeout)
	}
	if cfg.MarginFraction < 0 || cfg.MarginFraction >= 0.5 {
		return nil, fmt.Errorf("MARGIN_FRACTION must be in [0, 0.5) (got %g)", cfg.MarginFraction)
	}
	if cfg.ColumnStride < 1 || cfg.ColorSampleStride < 1 {
		return nil, fmt.Errorf("strides must be >= 1 (got column=%d, sample=%d)",
			cfg.ColumnStride, cfg.ColorSampleStride)
	}
	if cfg.OutlierZThreshold <= 0 {
		return nil, fmt.Errorf("OUTLIER_Z_THRESHOLD must be > 0 (got %g)", cfg.OutlierZThreshold)
	}
	if cfg.SmoothWindow < 1 {
		return nil, fmt.Errorf("SMOOTH_WINDOW must be >= 1 (got %d)", cfg.SmoothWindow)
	}
	if cfg.MinTracePoints < 2 {
		return nil, fmt.Errorf("MIN_TRACE_POINTS must be >= 2 (got %d)", cfg.MinTracePoints)
	}
	if cfg.PolynomialDegree < 1 {
		return nil, fmt.Errorf("POLYNOMIAL_DEGREE must be >= 1 (got %d)", cfg.PolynomialDegree)
	}
	if cfg.RecentWindow < 2 {
		return nil, fmt.Errorf("RECENT_WINDOW must be >= 2 (got %d)", cfg.RecentWindow)
	}
	switch cfg.StorageBackend {
	case "http", "local", "azure":
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND: %q", cfg.StorageBackend)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
