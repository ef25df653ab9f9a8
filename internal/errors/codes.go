package errors

// Error code constants organized by phase
// E001-E099: I/O errors
// E100-E199: Schema errors (malformed node document)
// E200-E299: Reference errors
// E300-E399: Type dictionary errors
// E400-E499: Codegen errors

const (
	// I/O errors (E001-E099)
	ErrUnreadableInput      = "E001"
	ErrInvalidJSON          = "E002"
	ErrWriteFailed          = "E003"
	ErrUnreadableDictionary = "E004"

	// Schema errors (E100-E199)
	ErrMissingField   = "E100"
	ErrWrongFieldType = "E101"

	// Reference errors (E200-E299)
	ErrUnresolvedReference = "E200"

	// Type dictionary errors (E300-E399)
	ErrUnknownType = "E300"

	// Codegen errors (E400-E499)
	ErrMacroCollision = "E400"
	ErrMissingMarker  = "E401"
)

// Phases
const (
	PhaseIO      = "io"
	PhaseAssign  = "assign"
	PhaseResolve = "resolve"
	PhaseTypes   = "types"
	PhaseCodegen = "codegen"
)

// ErrorMessages maps error codes to their default messages
var ErrorMessages = map[string]string{
	ErrUnreadableInput:      "Can not open file",
	ErrInvalidJSON:          "Invalid JSON syntax",
	ErrWriteFailed:          "Can not write file",
	ErrUnreadableDictionary: "Can not load type dictionary",
	ErrMissingField:         "Missing required field",
	ErrWrongFieldType:       "Field has the wrong JSON type",
	ErrUnresolvedReference:  "Missing point reference",
	ErrUnknownType:          "Unknown type name",
	ErrMacroCollision:       "Duplicate #define symbol",
	ErrMissingMarker:        "Auto-generation marker not found",
}

// GetErrorMessage returns the default message for an error code
func GetErrorMessage(code string) string {
	if msg, ok := ErrorMessages[code]; ok {
		return msg
	}
	return "Unknown error"
}
