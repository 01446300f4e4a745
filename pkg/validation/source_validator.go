package validation

import (
	"net/url"
	"strings"

	apperrors "go-chart-digitizer/internal/errors"
)

// SourceValidator handles validation of chart image source references
type SourceValidator struct {
	allowedSchemes  []string
	allowedHosts    []string
	allowLocalPaths bool
}

// NewSourceValidator creates a source validator with default settings
func NewSourceValidator() *SourceValidator {
	return &SourceValidator{
		allowedSchemes: []string{"http", "https"},
		allowedHosts:   []string{}, // empty means all hosts allowed
	}
}

// NewSourceValidatorWithOptions creates a source validator with custom options.
// allowLocalPaths accepts plain filesystem paths alongside URLs, for the
// local storage backend.
func NewSourceValidatorWithOptions(schemes []string, hosts []string, allowLocalPaths bool) *SourceValidator {
	return &SourceValidator{
		allowedSchemes:  schemes,
		allowedHosts:    hosts,
		allowLocalPaths: allowLocalPaths,
	}
}

// ValidateSource validates if the reference is acceptable for image fetching
func (v *SourceValidator) ValidateSource(source string) error {
	if strings.TrimSpace(source) == "" {
		return apperrors.NewValidationError("source cannot be empty", nil)
	}

	parsedURL, err := url.Parse(source)
	if err != nil {
		return apperrors.NewValidationError("invalid source format", err)
	}

	if parsedURL.Scheme == "" {
		if v.allowLocalPaths {
			return nil
		}
		return apperrors.NewValidationError("source must be a URL", nil)
	}

	if !v.isSchemeAllowed(parsedURL.Scheme) {
		return apperrors.NewValidationError("source scheme not allowed", nil)
	}

	if parsedURL.Host == "" {
		return apperrors.NewValidationError("source must have a valid host", nil)
	}

	if len(v.allowedHosts) > 0 && !v.isHostAllowed(parsedURL.Host) {
		return apperrors.NewValidationError("source host not allowed", nil)
	}

	return nil
}

// isSchemeAllowed checks if the URL scheme is in the allowed list
func (v *SourceValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if scheme == allowed {
			return true
		}
	}
	return false
}

// isHostAllowed checks if the URL host is in the allowed list
// Returns true if no host restrictions are set (empty allowedHosts)
func (v *SourceValidator) isHostAllowed(host string) bool {
	if len(v.allowedHosts) == 0 {
		return true
	}
	for _, allowed := range v.allowedHosts {
		if host == allowed {
			return true
		}
	}
	return false
}
