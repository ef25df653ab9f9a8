package strings

import (
	"regexp"
	"strings"
)

var nonWordRun = regexp.MustCompile(`\W+`)

// ToMacroName converts an arbitrary point name into an upper-case C
// identifier. Every run of non-word characters collapses to a single
// underscore and a leading digit is prefixed with one.
//
//	ToMacroName("Chassis 1.Temp-A") // CHASSIS_1_TEMP_A
//	ToMacroName("3Phase")           // _3PHASE
func ToMacroName(name string) string {
	result := nonWordRun.ReplaceAllString(name, "_")
	if result == "" {
		return "_"
	}
	if result[0] >= '0' && result[0] <= '9' {
		result = "_" + result
	}
	return strings.ToUpper(result)
}

// IsMacroPrefix reports whether s can start a C identifier (used to validate
// configurable macro prefixes).
func IsMacroPrefix(s string) bool {
	if s == "" {
		return false
	}
	if s[0] >= '0' && s[0] <= '9' {
		return false
	}
	return !nonWordRun.MatchString(s)
}
