package errors

import (
	"encoding/json"
)

// JSONOutput represents the JSON structure for error output
type JSONOutput struct {
	Status string      `json:"status"`
	Errors []jsonError `json:"errors"`
}

type jsonError struct {
	Phase       string   `json:"phase"`
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Symbol      string   `json:"symbol,omitempty"`
	Path        string   `json:"path,omitempty"`
	Object      string   `json:"object,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Cause       string   `json:"cause,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (e *ConvertError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.toJSON())
}

func (e *ConvertError) toJSON() jsonError {
	je := jsonError{
		Phase:       e.Phase,
		Code:        e.Code,
		Message:     e.Message,
		Symbol:      e.Symbol,
		Path:        e.Path,
		Object:      e.Object,
		Suggestions: e.Suggestions,
	}
	if e.Cause != nil {
		je.Cause = e.Cause.Error()
	}
	return je
}

// FormatAsJSON renders err as an indented JSON diagnostic document. Errors
// that are not ConvertErrors are reported with an empty phase and code.
func FormatAsJSON(err error) (string, error) {
	output := JSONOutput{Status: "success", Errors: []jsonError{}}
	if err != nil {
		output.Status = "error"
		if ce, ok := AsConvertError(err); ok {
			output.Errors = append(output.Errors, ce.toJSON())
		} else {
			output.Errors = append(output.Errors, jsonError{Message: err.Error()})
		}
	}

	data, mErr := json.MarshalIndent(output, "", "  ")
	if mErr != nil {
		return "", mErr
	}
	return string(data), nil
}
