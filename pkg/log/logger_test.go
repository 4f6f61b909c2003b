package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/amesfit/amesfit/pkg/errors"
)

func TestToLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{in: "debug", want: zerolog.DebugLevel},
		{in: "info", want: zerolog.InfoLevel},
		{in: "WARN", want: zerolog.WarnLevel},
		{in: "error", want: zerolog.ErrorLevel},
		{in: "bogus", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := ToLevel(tt.in); got != tt.want {
			t.Errorf("ToLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWithErrorAddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info")

	err := errors.NewNotFittedError("Regression", "Predict")
	WithError(logger.Error(), err).Msg("predict failed")

	var record map[string]any
	if jerr := json.Unmarshal(buf.Bytes(), &record); jerr != nil {
		t.Fatalf("log output is not JSON: %v", jerr)
	}
	if _, ok := record[ErrAttrKey]; !ok {
		t.Errorf("log record missing %q attribute: %v", ErrAttrKey, record)
	}
	if _, ok := record[StacktraceAttrKey]; !ok {
		t.Errorf("log record missing %q attribute: %v", StacktraceAttrKey, record)
	}
}
