package audit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInput_SQLi(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"classic quote injection", "' OR '1'='1"},
		{"drop table", "'; DROP TABLE users--"},
		{"union select", "1 UNION SELECT * FROM passwords"},
		{"comment injection", "admin'--"},
		{"stacked queries", "admin'; DELETE FROM logs; --"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finding := CheckInput("message", tt.value)
			require.NotNil(t, finding)
			assert.Equal(t, KindSQLi, finding.Kind)
			assert.Equal(t, "message", finding.Field)
			assert.NotEmpty(t, finding.Fingerprint)
		})
	}
}

func TestCheckInput_XSS(t *testing.T) {
	finding := CheckInput("message", `<script>alert(document.cookie)</script>`)

	require.NotNil(t, finding)
	assert.Equal(t, KindXSS, finding.Kind)
	assert.Empty(t, finding.Fingerprint)
}

func TestCheckInput_Clean(t *testing.T) {
	for _, value := range []string{
		"",
		"founder@startup.io",
		"O'Brien",
		"We need a marketplace app for dog walkers, ideally live in 6 weeks.",
		"SELECT the best option from the menu",
	} {
		assert.Nil(t, CheckInput("message", value), "value %q", value)
	}
}

func TestCheckInput_TruncatesLoggedValue(t *testing.T) {
	value := "' OR '1'='1 " + strings.Repeat("x", 500)

	finding := CheckInput("message", value)

	require.NotNil(t, finding)
	assert.Len(t, []rune(finding.Value), maxLoggedValue+3)
	assert.True(t, strings.HasSuffix(finding.Value, "..."))
}

func TestCheckFields_OrderedByField(t *testing.T) {
	findings := CheckFields(map[string]string{
		"message": "'; DROP TABLE users--",
		"email":   "' OR '1'='1",
		"name":    "Ada",
	})

	require.Len(t, findings, 2)
	assert.Equal(t, "email", findings[0].Field)
	assert.Equal(t, "message", findings[1].Field)
}
