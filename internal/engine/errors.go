package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Category is the coarse error taxonomy surfaced to tool callers.
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryNotFound   Category = "not_found"
	CategorySyntax     Category = "syntax"
	CategoryLicense    Category = "license"
	CategoryPermission Category = "permission"
	CategoryGeneric    Category = "generic"
)

// Error carries a category alongside the underlying engine message. The
// bridge produces these from structured error codes; errors from other
// sources fall back to Classify.
type Error struct {
	Category Category
	Message  string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds a categorized engine error.
func NewError(category Category, format string, args ...any) *Error {
	return &Error{Category: category, Message: fmt.Sprintf(format, args...)}
}

// Classify maps an error to a Category. Typed engine errors are trusted;
// everything else is matched by substring against the message text. The
// substring pass is a documented heuristic, kept for errors that cross the
// vendor boundary without a code.
func Classify(err error) Category {
	if err == nil {
		return CategoryGeneric
	}
	var engErr *Error
	if errors.As(err, &engErr) {
		return engErr.Category
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not found"):
		return CategoryNotFound
	case strings.Contains(msg, "syntax"):
		return CategorySyntax
	case strings.Contains(msg, "license"):
		return CategoryLicense
	case strings.Contains(msg, "permission"):
		return CategoryPermission
	}
	return CategoryGeneric
}

// categoryFromCode maps bridge wire codes onto the taxonomy.
func categoryFromCode(code string) Category {
	switch strings.TrimSpace(strings.ToLower(code)) {
	case "not_found":
		return CategoryNotFound
	case "syntax":
		return CategorySyntax
	case "license":
		return CategoryLicense
	case "permission":
		return CategoryPermission
	}
	return CategoryGeneric
}
