// internal/core/usecases/orchestrator_test.go
package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redrecon/internal/core/domain"
	"redrecon/internal/core/ports"
	perrors "redrecon/internal/platform/errors"
	"redrecon/internal/platform/logx"
)

func newTestOrchestrator() *Orchestrator {
	return NewOrchestrator(OrchestratorOptions{Logger: logx.NewNop()})
}

func drain(t *testing.T, stream <-chan domain.Outcome) []domain.Outcome {
	t.Helper()
	out := make([]domain.Outcome, 0)
	timeout := time.After(5 * time.Second)
	for {
		select {
		case o, ok := <-stream:
			if !ok {
				return out
			}
			out = append(out, o)
		case <-timeout:
			t.Fatalf("stream not closed after %d outcomes", len(out))
			return out
		}
	}
}

func TestOrchestrator_OneOutcomePerProbe(t *testing.T) {
	probes := make([]ports.Probe, 0, 10)
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("probe-%d", i)
		switch i % 3 {
		case 0:
			probes = append(probes, returning(name, name, time.Duration(i)*time.Millisecond, domain.List(i)))
		case 1:
			probes = append(probes, failing(name, 0, errors.New("unreachable")))
		default:
			probes = append(probes, panicking(name))
		}
	}

	outcomes := drain(t, newTestOrchestrator().Run(context.Background(), "example.com", probes, &fakeClient{}))

	require.Len(t, outcomes, 10)
	seen := make(map[string]bool)
	for _, o := range outcomes {
		assert.False(t, seen[o.Probe], "probe %s settled twice", o.Probe)
		seen[o.Probe] = true
		assert.True(t, (o.Result == nil) != (o.Failure == nil), "exactly one of result/failure")
	}
}

func TestOrchestrator_NoProbes(t *testing.T) {
	outcomes := drain(t, newTestOrchestrator().Run(context.Background(), "example.com", nil, &fakeClient{}))
	assert.Empty(t, outcomes)
}

func TestOrchestrator_FailuresAreIsolated(t *testing.T) {
	ok := returning("ok", "crt.sh", 30*time.Millisecond, domain.List("www.example.com"))
	probes := []ports.Probe{
		failing("err", 0, errors.New("dns exploded")),
		panicking("panic"),
		ok,
	}

	outcomes := drain(t, newTestOrchestrator().Run(context.Background(), "example.com", probes, &fakeClient{}))
	require.Len(t, outcomes, 3)

	byProbe := make(map[string]domain.Outcome)
	for _, o := range outcomes {
		byProbe[o.Probe] = o
	}

	require.True(t, byProbe["ok"].OK())
	assert.Equal(t, []string{"www.example.com"}, byProbe["ok"].Result.Data.Strings())

	errOutcome := byProbe["err"]
	require.NotNil(t, errOutcome.Failure)
	assert.EqualError(t, errOutcome.Failure.Err, "dns exploded")

	panicOutcome := byProbe["panic"]
	require.NotNil(t, panicOutcome.Failure)
	assert.ErrorIs(t, panicOutcome.Failure.Err, domain.ErrProbePanic)
	assert.True(t, perrors.IsPanic(panicOutcome.Failure.Err))
	assert.Contains(t, panicOutcome.Failure.Err.Error(), "boom")
}

func TestOrchestrator_InvalidResultsBecomeFailures(t *testing.T) {
	nilResult := newMockProbe("nil", func(context.Context, string, ports.NetClient) (*domain.ProbeResult, error) {
		return nil, nil
	})
	noSource := newMockProbe("nosource", func(context.Context, string, ports.NetClient) (*domain.ProbeResult, error) {
		return domain.NewProbeResult("", "subdomains", domain.List("a")), nil
	})

	outcomes := drain(t, newTestOrchestrator().Run(context.Background(), "example.com",
		[]ports.Probe{nilResult, noSource}, &fakeClient{}))

	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		require.False(t, o.OK(), o.Probe)
		assert.ErrorIs(t, o.Failure.Err, domain.ErrInvalidResult)
	}
}

func TestOrchestrator_CompletionOrder(t *testing.T) {
	probes := []ports.Probe{
		returning("slow", "slow", 80*time.Millisecond, domain.List()),
		returning("fast", "fast", 0, domain.List()),
		returning("medium", "medium", 40*time.Millisecond, domain.List()),
	}

	outcomes := drain(t, newTestOrchestrator().Run(context.Background(), "example.com", probes, &fakeClient{}))

	require.Len(t, outcomes, 3)
	assert.Equal(t, "fast", outcomes[0].Probe)
	assert.Equal(t, "medium", outcomes[1].Probe)
	assert.Equal(t, "slow", outcomes[2].Probe)
}

func TestOrchestrator_LaunchesAllBeforeFirstSettles(t *testing.T) {
	const n = 5
	var arrived int32
	barrier := func(ctx context.Context, _ string, _ ports.NetClient) (*domain.ProbeResult, error) {
		atomic.AddInt32(&arrived, 1)
		deadline := time.After(2 * time.Second)
		for atomic.LoadInt32(&arrived) < n {
			select {
			case <-deadline:
				return nil, errors.New("siblings never started")
			case <-time.After(time.Millisecond):
			}
		}
		return domain.NewProbeResult("barrier", "t", domain.List()), nil
	}

	probes := make([]ports.Probe, 0, n)
	for i := 0; i < n; i++ {
		probes = append(probes, newMockProbe(fmt.Sprintf("b%d", i), barrier))
	}

	stream := newTestOrchestrator().Run(context.Background(), "example.com", probes, &fakeClient{})
	for _, o := range drain(t, stream) {
		assert.True(t, o.OK(), "probe %s: %v", o.Probe, o.Failure)
	}
}

func TestOrchestrator_PassesTargetAndClient(t *testing.T) {
	client := &fakeClient{}
	var gotTarget string
	var gotClient ports.NetClient
	p := newMockProbe("capture", func(_ context.Context, target string, c ports.NetClient) (*domain.ProbeResult, error) {
		gotTarget, gotClient = target, c
		return domain.NewProbeResult("capture", "t", domain.List()), nil
	})

	drain(t, newTestOrchestrator().Run(context.Background(), "example.com", []ports.Probe{p}, client))

	assert.Equal(t, "example.com", gotTarget)
	assert.Same(t, client, gotClient)
	assert.Equal(t, int32(1), atomic.LoadInt32(&p.runCallCount))
}

func TestOrchestrator_EmptyDataIsNotAFailure(t *testing.T) {
	probes := []ports.Probe{
		returning("empty", "crt.sh", 0, domain.List()),
		failing("broken", 0, errors.New("refused")),
	}

	outcomes := drain(t, newTestOrchestrator().Run(context.Background(), "example.com", probes, &fakeClient{}))
	require.Len(t, outcomes, 2)

	for _, o := range outcomes {
		switch o.Probe {
		case "empty":
			require.True(t, o.OK())
			assert.Equal(t, domain.StatusEmpty, o.Status())
			assert.NotNil(t, o.Result.Data.Items())
		case "broken":
			assert.Equal(t, domain.StatusFailed, o.Status())
		}
	}
}
