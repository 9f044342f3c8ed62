package engine

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassify_TypedError(t *testing.T) {
	err := NewError(CategoryLicense, "no concurrent license seats")
	if got := Classify(err); got != CategoryLicense {
		t.Fatalf("Classify = %v, want %v", got, CategoryLicense)
	}
	wrapped := fmt.Errorf("tool call: %w", err)
	if got := Classify(wrapped); got != CategoryLicense {
		t.Fatalf("Classify(wrapped) = %v, want %v", got, CategoryLicense)
	}
}

func TestClassify_SubstringFallback(t *testing.T) {
	cases := []struct {
		msg  string
		want Category
	}{
		{"model file not found", CategoryNotFound},
		{"FlexScript Syntax error near token", CategorySyntax},
		{"LICENSE server unreachable", CategoryLicense},
		{"permission denied writing export", CategoryPermission},
		{"something else entirely", CategoryGeneric},
	}
	for _, tc := range cases {
		if got := Classify(errors.New(tc.msg)); got != tc.want {
			t.Fatalf("Classify(%q) = %v, want %v", tc.msg, got, tc.want)
		}
	}
}

func TestClassify_Nil(t *testing.T) {
	if got := Classify(nil); got != CategoryGeneric {
		t.Fatalf("Classify(nil) = %v", got)
	}
}

func TestCategoryFromCode(t *testing.T) {
	if got := categoryFromCode(" NOT_FOUND "); got != CategoryNotFound {
		t.Fatalf("categoryFromCode = %v", got)
	}
	if got := categoryFromCode("weird"); got != CategoryGeneric {
		t.Fatalf("categoryFromCode(weird) = %v", got)
	}
}

func TestResolveInstallDir_Fallbacks(t *testing.T) {
	primary := t.TempDir()
	if got, err := ResolveInstallDir(primary, nil); err != nil || got != primary {
		t.Fatalf("ResolveInstallDir(primary) = %q, %v", got, err)
	}

	fallback := t.TempDir()
	got, err := ResolveInstallDir("/does/not/exist", []string{"/also/missing", fallback})
	if err != nil {
		t.Fatalf("ResolveInstallDir: %v", err)
	}
	if got != fallback {
		t.Fatalf("ResolveInstallDir = %q, want %q", got, fallback)
	}
}

func TestResolveInstallDir_AllMissing(t *testing.T) {
	_, err := ResolveInstallDir("/does/not/exist", []string{"/also/missing"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := Classify(err); got != CategoryNotFound {
		t.Fatalf("Classify = %v, want not_found", got)
	}
}
