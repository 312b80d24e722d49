// Package jsonutil tolerates the loose typing language models use in JSON output.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexibleStringValue converts a json.RawMessage to a string, handling models
// that return numbers or booleans where a string is expected.
// Returns empty string for null/empty.
func FlexibleStringValue(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return strVal
	}

	var numVal json.Number
	if err := json.Unmarshal(raw, &numVal); err == nil {
		return numVal.String()
	}

	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		return strconv.FormatBool(boolVal)
	}

	return string(raw)
}

// FlexibleFloat converts a json.RawMessage holding a number, or a string with
// a number such as "0.8" or "75%", to a float64. Percent strings are divided by 100.
// Null/empty yields (0, nil).
func FlexibleFloat(raw json.RawMessage) (float64, error) {
	if isNull(raw) {
		return 0, nil
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num, nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return 0, fmt.Errorf("expected number, got %s", string(raw))
	}

	str = strings.TrimSpace(str)
	percent := strings.HasSuffix(str, "%")
	str = strings.TrimSuffix(str, "%")

	num, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		return 0, fmt.Errorf("expected number, got %q", str)
	}
	if percent {
		num /= 100
	}
	return num, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}
