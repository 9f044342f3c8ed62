package tools

import (
	"errors"
	"testing"

	"flexsim-mcp/internal/engine"
)

func TestFormatTime_UnitScaling(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{45.0, "45.00s"},
		{59.99, "59.99s"},
		{125.0, "2.08m"},
		{3599.0, "59.98m"},
		{7200.0, "2.00h"},
		{3600.0, "1.00h"},
		{0, "0.00s"},
	}
	for _, tc := range cases {
		if got := FormatTime(tc.seconds); got != tc.want {
			t.Fatalf("FormatTime(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatError_CategoryPrefixes(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{engine.NewError(engine.CategoryNotFound, "model missing"), "Not found: model missing"},
		{engine.NewError(engine.CategorySyntax, "bad token"), "FlexScript syntax error: bad token"},
		{engine.NewError(engine.CategoryLicense, "no seats"), "License error: no seats"},
		{engine.NewError(engine.CategoryPermission, "read-only dir"), "Permission denied: read-only dir"},
		{errors.New("engine exploded"), "Error: engine exploded"},
		{errors.New("file not found on disk"), "Not found: file not found on disk"},
	}
	for _, tc := range cases {
		if got := FormatError(tc.err); got != tc.want {
			t.Fatalf("FormatError(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestFormatError_Nil(t *testing.T) {
	if got := FormatError(nil); got != "" {
		t.Fatalf("FormatError(nil) = %q", got)
	}
}
