package audit

import (
	"maps"
	"slices"

	libinjection "github.com/corazawaf/libinjection-go"
)

// FindingKind names the detector that matched.
type FindingKind string

const (
	KindSQLi FindingKind = "sqli"
	KindXSS  FindingKind = "xss"
)

// InputFinding describes one suspicious field value.
type InputFinding struct {
	Field       string      `json:"field"`
	Kind        FindingKind `json:"kind"`
	Fingerprint string      `json:"fingerprint,omitempty"` // libinjection SQLi fingerprint
	Value       string      `json:"value"`
}

// maxLoggedValue bounds how much attacker-controlled text reaches the logs.
const maxLoggedValue = 200

// CheckInput runs the libinjection SQLi and XSS detectors over value.
// Returns nil when the value looks clean.
func CheckInput(field, value string) *InputFinding {
	if value == "" {
		return nil
	}

	if isSQLi, fingerprint := libinjection.IsSQLi(value); isSQLi {
		return &InputFinding{
			Field:       field,
			Kind:        KindSQLi,
			Fingerprint: string(fingerprint),
			Value:       truncate(value),
		}
	}

	if libinjection.IsXSS(value) {
		return &InputFinding{Field: field, Kind: KindXSS, Value: truncate(value)}
	}

	return nil
}

// CheckFields checks each named value and returns every finding, ordered by field name.
func CheckFields(fields map[string]string) []*InputFinding {
	var findings []*InputFinding
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		if f := CheckInput(name, fields[name]); f != nil {
			findings = append(findings, f)
		}
	}
	return findings
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxLoggedValue {
		return s
	}
	return string(runes[:maxLoggedValue]) + "..."
}
