// internal/core/domain/scan_run_test.go
package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanRun_Lifecycle(t *testing.T) {
	run := NewScanRun("example.com", []string{"CRT.sh", "Port Scanner"})

	require.NotEmpty(t, run.ID)
	assert.Equal(t, 2, run.Pending())

	assert.True(t, run.Record(Succeeded("CRT.sh", NewProbeResult("crt.sh", "subdomains", List()), time.Millisecond)))
	assert.True(t, run.Record(Failed("Port Scanner", errors.New("boom"), time.Millisecond)))
	assert.Equal(t, 2, run.Settled())

	run.Finalize(AggregatedResults{"crt.sh": List()}, false)
	assert.False(t, run.FinishedAt.IsZero())

	// inmutable tras Finalize
	assert.False(t, run.Record(Failed("late", errors.New("late"), 0)))
	run.Finalize(nil, true)
	assert.False(t, run.Interrupted)
	assert.Len(t, run.Outcomes, 2)

	assert.Len(t, run.Succeeded(), 1)
	assert.Len(t, run.Failed(), 1)
	assert.Equal(t, run.FinishedAt.Sub(run.StartedAt), run.Elapsed())
}

func TestScanRun_InterruptedKeepsPending(t *testing.T) {
	run := NewScanRun("example.com", []string{"a", "b", "c"})
	run.Record(Succeeded("a", NewProbeResult("a", "t", List()), 0))
	run.Finalize(nil, true)

	assert.True(t, run.Interrupted)
	assert.Equal(t, 2, run.Pending())
	assert.NotNil(t, run.Results)
}

func TestPayload_DecodeFallback(t *testing.T) {
	structured := NewPayload(200, []byte(`[{"name_value":"a.example.com"}]`))
	assert.True(t, structured.IsStructured())

	var entries []map[string]string
	require.NoError(t, structured.Decode(&entries))
	assert.Equal(t, "a.example.com", entries[0]["name_value"])

	html := NewPayload(502, []byte("<html>bad gateway</html>"))
	assert.False(t, html.IsStructured())
	assert.Equal(t, "<html>bad gateway</html>", html.Text())
	assert.Error(t, html.Decode(&entries))

	var missing *Payload
	assert.Equal(t, "", missing.Text())
	assert.False(t, missing.IsStructured())
}
