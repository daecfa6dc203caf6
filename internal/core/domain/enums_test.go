// internal/core/domain/enums_test.go
package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategory_IsValid(t *testing.T) {
	tests := []struct {
		category Category
		expected bool
	}{
		{CategoryRecon, true},
		{CategoryActive, true},
		{CategoryInfra, true},
		{Category("passive"), false},
		{Category(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.category.IsValid())
		})
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "SUCCESS", StatusSuccess.String())
	assert.Equal(t, "EMPTY", StatusEmpty.String())
	assert.Equal(t, "FAILED", StatusFailed.String())
}

func TestFailure_Error(t *testing.T) {
	cause := errors.New("connection refused")
	f := Failed("Port Scanner", cause, time.Second).Failure

	assert.Equal(t, `probe "Port Scanner" failed: connection refused`, f.Error())
	assert.ErrorIs(t, f, cause)
	assert.Equal(t, `probe "x" failed`, (&Failure{Probe: "x"}).Error())
}

func TestOutcome_Source(t *testing.T) {
	ok := Succeeded("CRT.sh", NewProbeResult("crt.sh", "subdomains", List()), 0)
	assert.Equal(t, "crt.sh", ok.Source())
	assert.Empty(t, Failed("CRT.sh", errors.New("x"), 0).Source())
}

func TestAggregatedResults_Sources(t *testing.T) {
	results := AggregatedResults{
		"whois":     Mapping(map[string]any{}),
		"crt.sh":    List(),
		"port_scan": List(80),
	}
	assert.Equal(t, []string{"crt.sh", "port_scan", "whois"}, results.Sources())
	assert.Empty(t, AggregatedResults{}.Sources())
}
