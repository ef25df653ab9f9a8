package ui

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"

	fxterrors "github.com/colony-core/foxtail/internal/errors"
)

func TestFormatError(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		opts     ErrorOptions
		contains []string
	}{
		{
			name: "basic error",
			opts: ErrorOptions{
				Level:   ErrorLevelError,
				Context: "resolve failed",
				Problem: "Missing point reference: TempInn",
			},
			contains: []string{
				"❌",
				"RESOLVE FAILED",
				"Missing point reference: TempInn",
			},
		},
		{
			name: "error with suggestions",
			opts: ErrorOptions{
				Level:       ErrorLevelError,
				Problem:     "Missing point reference: TempInn",
				Suggestions: []string{"TempIn", "TempOut"},
			},
			contains: []string{
				"Did you mean: TempIn, TempOut?",
			},
		},
		{
			name: "error with detail and help",
			opts: ErrorOptions{
				Level:        ErrorLevelError,
				Problem:      "Unknown type name",
				Detail:       "at: $.chassis[*]\nfor: {}",
				HelpCommands: []string{"Get help: foxtail convert --help"},
			},
			contains: []string{
				"   at: $.chassis[*]\n",
				"   for: {}\n",
				"→ Get help: foxtail convert --help",
			},
		},
		{
			name: "warning message",
			opts: ErrorOptions{
				Level:   ErrorLevelWarning,
				Problem: "Duplicate point symbol",
			},
			contains: []string{"⚠️", "Duplicate point symbol"},
		},
		{
			name: "info message",
			opts: ErrorOptions{
				Level:   ErrorLevelInfo,
				Problem: "Watching node.json",
			},
			contains: []string{"ℹ️", "Watching node.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatError(tt.opts)
			for _, want := range tt.contains {
				if !strings.Contains(result, want) {
					t.Errorf("FormatError() result missing %q\nGot:\n%s", want, result)
				}
			}
		})
	}
}

func TestConversionError(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	err := fxterrors.Unresolved("TempInn").
		WithObject(map[string]any{"idRef": "TempInn"}).
		WithSuggestions([]string{"TempIn"})

	result := ConversionError(fmt.Errorf("convert: %w", err), "node.json", true)

	for _, want := range []string{
		"RESOLVE FAILED [E200]: Missing point reference: TempInn",
		"for: {",
		`"idRef"`,
		"Did you mean: TempIn?",
		"foxtail convert node.json --list",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("ConversionError() missing %q\nGot:\n%s", want, result)
		}
	}
}

func TestConversionError_UnknownTypeShowsPath(t *testing.T) {
	err := fxterrors.UnknownType("Fxt::Point::Bol", "$.chassis[*].sharedPts[*]")
	result := ConversionError(err, "", true)

	if !strings.Contains(result, "Fxt::Point::Bol") {
		t.Errorf("expected the type name in %q", result)
	}
	if !strings.Contains(result, "at: $.chassis[*].sharedPts[*]") {
		t.Errorf("expected the object path in %q", result)
	}
	if !strings.Contains(result, "collect-guids") {
		t.Errorf("expected a collect-guids hint in %q", result)
	}
}

func TestConversionError_PlainError(t *testing.T) {
	result := ConversionError(fmt.Errorf("boom"), "", true)
	if !strings.Contains(result, "FAILED: boom") {
		t.Errorf("unexpected output %q", result)
	}
}

func TestWriteSuccess(t *testing.T) {
	var buf bytes.Buffer
	WriteSuccess(&buf, "Wrote node.id.json", true)

	if buf.String() != "✓ Wrote node.id.json\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestWarningAndInfo(t *testing.T) {
	if got := Warning("careful", []string{"a"}, true); !strings.Contains(got, "careful") || !strings.Contains(got, "Did you mean: a?") {
		t.Errorf("unexpected warning %q", got)
	}
	if got := Info("hello", true); !strings.Contains(got, "hello") {
		t.Errorf("unexpected info %q", got)
	}
}
