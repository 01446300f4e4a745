package validation

import (
	"testing"

	apperrors "go-chart-digitizer/internal/errors"
)

func TestValidateSource(t *testing.T) {
	v := NewSourceValidator()

	tests := []struct {
		name    string
		source  string
		wantErr bool
	}{
		{"valid http URL", "http://example.com/chart.png", false},
		{"valid https URL", "https://example.com/chart.png", false},
		{"empty source", "", true},
		{"whitespace source", "   ", true},
		{"missing scheme", "example.com/chart.png", true},
		{"disallowed scheme", "ftp://example.com/chart.png", true},
		{"missing host", "https:///chart.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateSource(tt.source)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSource(%q) error = %v, wantErr %v", tt.source, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSourceErrorType(t *testing.T) {
	v := NewSourceValidator()

	err := v.ValidateSource("")
	if err == nil {
		t.Fatal("expected error for empty source")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("expected validation error type, got %v", err)
	}
}

func TestValidateSourceHostRestrictions(t *testing.T) {
	v := NewSourceValidatorWithOptions([]string{"https"}, []string{"charts.internal"}, false)

	if err := v.ValidateSource("https://charts.internal/btc.png"); err != nil {
		t.Errorf("expected allowed host to pass, got %v", err)
	}
	if err := v.ValidateSource("https://example.com/btc.png"); err == nil {
		t.Error("expected disallowed host to fail")
	}
	if err := v.ValidateSource("http://charts.internal/btc.png"); err == nil {
		t.Error("expected disallowed scheme to fail")
	}
}

func TestValidateSourceLocalPaths(t *testing.T) {
	strict := NewSourceValidator()
	if err := strict.ValidateSource("/data/charts/btc.png"); err == nil {
		t.Error("expected plain path to fail with default validator")
	}

	local := NewSourceValidatorWithOptions([]string{"http", "https"}, nil, true)
	if err := local.ValidateSource("/data/charts/btc.png"); err != nil {
		t.Errorf("expected plain path to pass with local paths allowed, got %v", err)
	}
	if err := local.ValidateSource("https://example.com/chart.png"); err != nil {
		t.Errorf("expected URL to still pass, got %v", err)
	}
}
