// internal/platform/ui/ui_test.go
package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redrecon/internal/core/domain"
	"redrecon/internal/core/ports"
)

type recordingPresenter struct {
	NoopPresenter
	started  []ScanInfo
	settled  []ports.ProbeSettledEvent
	finished []Summary
	closed   bool
}

func (r *recordingPresenter) Start(info ScanInfo) { r.started = append(r.started, info) }
func (r *recordingPresenter) ProbeSettled(ev ports.ProbeSettledEvent) {
	r.settled = append(r.settled, ev)
}
func (r *recordingPresenter) Finish(s Summary) { r.finished = append(r.finished, s) }
func (r *recordingPresenter) Close() error     { r.closed = true; return nil }

func TestProgressNotifier_RoutesEvents(t *testing.T) {
	rec := &recordingPresenter{}
	n := NewProgressNotifier(rec, "1.0.0")
	ctx := context.Background()

	run := domain.NewScanRun("example.com", []string{"CRT.sh"})
	require.NoError(t, n.Notify(ctx, ports.NewEvent(ports.EventTypeScanStarted, run, ports.ScanStartedEvent{
		Probes:    []string{"CRT.sh"},
		StartedAt: run.StartedAt,
	})))
	require.NoError(t, n.Notify(ctx, ports.NewEvent(ports.EventTypeProbeSettled, run, ports.ProbeSettledEvent{
		Settled: 1, Total: 1, Probe: "CRT.sh", Source: "crt.sh", Status: domain.StatusSuccess,
	})))
	require.NoError(t, n.Notify(ctx, ports.NewEvent(ports.EventTypeScanInterrupted, run, ports.ScanCompletedEvent{
		Settled: 1, Total: 1, Succeeded: 1,
	})))
	require.NoError(t, n.Close())

	require.Len(t, rec.started, 1)
	assert.Equal(t, "example.com", rec.started[0].Target)
	assert.Equal(t, run.ID, rec.started[0].ScanID)
	assert.Equal(t, "1.0.0", rec.started[0].Version)

	require.Len(t, rec.settled, 1)
	assert.Equal(t, "crt.sh", rec.settled[0].Source)

	require.Len(t, rec.finished, 1)
	assert.True(t, rec.finished[0].Interrupted)
	assert.True(t, rec.closed)
}

func TestRawPresenter_Text(t *testing.T) {
	var buf bytes.Buffer
	p := NewRawPresenterWithWriter(LogFormatText, &buf)

	p.Start(ScanInfo{ScanID: "id-1", Target: "example.com", Probes: []string{"CRT.sh", "WHOIS"}})
	p.ProbeSettled(ports.ProbeSettledEvent{
		Settled: 1, Total: 2, Probe: "DNS Resolver", Status: domain.StatusFailed,
		Elapsed: 1500 * time.Millisecond, Err: errors.New("resolver down"),
	})
	p.Finish(Summary{
		Rows: []domain.SummaryRow{{
			Source: "CRT.SH", Type: "SUBDOMAINS", Content: "a.example.com, b.example.com",
			Count: 2, Status: domain.StatusSuccess,
		}},
		Duration: 2 * time.Second, Succeeded: 1, Failed: 1,
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "scan_started probes=CRT.sh,WHOIS scan_id=id-1 target=example.com")
	assert.Contains(t, lines[1], `error="resolver down"`)
	assert.Contains(t, lines[1], "progress=1/2")
	assert.Contains(t, lines[2], `content="a.example.com, b.example.com"`)
	assert.Contains(t, lines[3], "INFO  scan_completed duration=2.0s failed=1 succeeded=1")
}

func TestRawPresenter_JSONInterrupted(t *testing.T) {
	var buf bytes.Buffer
	p := NewRawPresenterWithWriter(LogFormatJSON, &buf)

	p.Finish(Summary{Interrupted: true})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "scan_interrupted", entry["message"])
}

func TestPTermPresenter_Smoke(t *testing.T) {
	pterm.DisableOutput()
	defer pterm.EnableOutput()

	p := NewPTermPresenter()
	p.Start(ScanInfo{Target: "example.com", StartedAt: time.Now(), Probes: []string{"CRT.sh", "WHOIS"}, Version: "1.0.0"})
	p.ProbeSettled(ports.ProbeSettledEvent{Settled: 1, Total: 2, Source: "crt.sh", Status: domain.StatusSuccess})
	p.ProbeSettled(ports.ProbeSettledEvent{Settled: 2, Total: 2, Probe: "WHOIS", Status: domain.StatusFailed})
	p.Finish(Summary{
		Rows:     domain.Summarize(nil),
		Duration: time.Second,
		Failed:   1,
	})
	assert.NoError(t, p.Close())
	assert.Nil(t, p.bar)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "Harvesting: crt.sh", progressTitle("crt.sh", "CRT.sh"))
	assert.Equal(t, "Harvesting: WHOIS", progressTitle("", "WHOIS"))
	assert.Equal(t, "-", joinProbes(nil))
	assert.Equal(t, "250ms", formatDuration(250*time.Millisecond))
	assert.Equal(t, "1.5s", formatDuration(1500*time.Millisecond))
	assert.Equal(t, "2m5s", formatDuration(125*time.Second))
}
