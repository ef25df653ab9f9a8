package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	fxterrors "github.com/colony-core/foxtail/internal/errors"
)

// ErrorLevel represents the severity of an error message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Detail       string // offending object or location, shown indented
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error message with suggestions and help commands
//
// Example output:
//
//	❌ RESOLVE FAILED [E200]: Missing point reference: TempInn
//	   Missing point reference: TempInn
//
//	   Did you mean: TempIn?
//
//	   → List assigned points: foxtail convert node.json --list
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var headerColor, bodyColor *color.Color
	var symbol string

	switch opts.Level {
	case ErrorLevelError:
		headerColor = color.New(color.FgRed, color.Bold)
		bodyColor = color.New(color.FgRed)
		symbol = "❌"
	case ErrorLevelWarning:
		headerColor = color.New(color.FgYellow, color.Bold)
		bodyColor = color.New(color.FgYellow)
		symbol = "⚠️"
	case ErrorLevelInfo:
		headerColor = color.New(color.FgCyan, color.Bold)
		bodyColor = color.New(color.FgCyan)
		symbol = "ℹ️"
	}

	if opts.NoColor {
		headerColor.DisableColor()
		bodyColor.DisableColor()
	}

	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if opts.Detail != "" {
		b.WriteString("\n")
		for _, line := range strings.Split(opts.Detail, "\n") {
			bodyColor.Fprintf(&b, "   %s\n", line)
		}
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		yellow := color.New(color.FgYellow)
		if opts.NoColor {
			yellow.DisableColor()
		}
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		cyan := color.New(color.FgCyan)
		if opts.NoColor {
			cyan.DisableColor()
		}
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// ConversionError renders any error returned by a foxtail operation. Errors
// carrying a diagnostic code get the phase, the offending object and any
// close matches; other errors are shown as a plain failure.
func ConversionError(err error, input string, noColor bool) string {
	ce, ok := fxterrors.AsConvertError(err)
	if !ok {
		return FormatError(ErrorOptions{
			Level:   ErrorLevelError,
			Context: "FAILED",
			Problem: err.Error(),
			NoColor: noColor,
		})
	}

	problem := ce.Message
	if ce.Cause != nil {
		problem = fmt.Sprintf("%s (%v)", problem, ce.Cause)
	}

	var detail []string
	if ce.Path != "" && ce.Phase != fxterrors.PhaseIO {
		detail = append(detail, "at: "+ce.Path)
	}
	if ce.Object != "" {
		detail = append(detail, "for: "+ce.Object)
	}

	return FormatError(ErrorOptions{
		Level:        ErrorLevelError,
		Context:      fmt.Sprintf("%s FAILED [%s]", ce.Phase, ce.Code),
		Problem:      problem,
		Detail:       strings.Join(detail, "\n"),
		Suggestions:  ce.Suggestions,
		HelpCommands: helpFor(ce.Code, input),
		NoColor:      noColor,
	})
}

func helpFor(code, input string) []string {
	if input == "" {
		input = "<infile>"
	}
	switch code {
	case fxterrors.ErrUnresolvedReference:
		return []string{"List assigned points: foxtail convert " + input + " --list"}
	case fxterrors.ErrUnknownType:
		return []string{"Rebuild the type dictionary: foxtail collect-guids <srcpath> --append"}
	case fxterrors.ErrMacroCollision:
		return []string{"Rename one of the points, or change header.prefix in foxtail.yml"}
	case fxterrors.ErrMissingMarker:
		return []string{"Add the MARKER_FXT_BEGIN_AUTO_GENERATION / MARKER_FXT_END_AUTO_GENERATION lines"}
	}
	return nil
}

// Warning creates a standardized warning message
func Warning(message string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelWarning,
		Problem:     message,
		Suggestions: suggestions,
		NoColor:     noColor,
	})
}

// Info creates a standardized info message
func Info(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelInfo,
		Problem: message,
		NoColor: noColor,
	})
}
