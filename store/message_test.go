package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type apiFailure struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type wrappedFailure struct {
	Error string
}

type emptyErr struct{}

func (emptyErr) Error() string { return "" }

func TestExtractErrorMessage(t *testing.T) {
	var nilErr *apiFailure

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, "Unknown error"},
		{"typed nil", nilErr, "Unknown error"},
		{"empty string", "", "Unknown error"},
		{"zero number", 0, "Unknown error"},
		{"false", false, "Unknown error"},
		{"string", "x", "x"},
		{"error", errors.New("Invalid credentials"), "Invalid credentials"},
		{"map message", map[string]any{"message": "m"}, "m"},
		{"map error", map[string]any{"error": "e"}, "e"},
		{"message wins over error", map[string]any{"message": "m", "error": "e"}, "m"},
		{"non-string error field", map[string]any{"error": 42}, `{"error":42}`},
		{"struct message", apiFailure{Message: "from struct", Code: 3}, "from struct"},
		{"struct pointer message", &apiFailure{Message: "from pointer"}, "from pointer"},
		{"struct error field", wrappedFailure{Error: "nested"}, "nested"},
		{"fallback json", map[string]any{"foo": 1}, `{"foo":1}`},
		{"empty error text", emptyErr{}, "{}"},
		{"number", 42, "42"},
		{"unencodable", map[string]any{"fn": func() {}}, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractErrorMessage(tt.input))
		})
	}
}
