// cmd/redrecon/main_test.go
package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redrecon/internal/core/domain"
	"redrecon/internal/core/ports"
	"redrecon/internal/platform/config"
	"redrecon/internal/platform/ui"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitReport, exitCode(&exitError{code: exitReport, err: errors.New("disk full")}))
	assert.Equal(t, exitConfig, exitCode(errors.New("unknown flag")))
}

func TestVersionFlag(t *testing.T) {
	out, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "redrecon dev")
}

func TestMissingTarget(t *testing.T) {
	_, stderr, err := execute(t, "--ui", "quiet")

	assert.Equal(t, exitConfig, exitCode(err))
	assert.ErrorIs(t, err, domain.ErrEmptyTarget)
	assert.Contains(t, stderr, "target domain is required")
}

func TestInvalidConfig(t *testing.T) {
	_, _, err := execute(t, "-t", "example.com", "--ui", "fancy")

	assert.Equal(t, exitConfig, exitCode(err))
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestNoProbesExitsWithConfigCode(t *testing.T) {
	_, _, err := execute(t,
		"-t", "example.com",
		"--ui", "quiet",
		"--log-level", "silent",
		"-o", t.TempDir(),
		"--disable", "crtsh,hackertarget,dnsresolve,portscan,whois",
	)

	assert.Equal(t, exitConfig, exitCode(err))
	assert.ErrorIs(t, err, domain.ErrNoProbes)
}

func TestProbesCommand(t *testing.T) {
	out, _, err := execute(t, "probes")
	require.NoError(t, err)

	for _, key := range []string{"crtsh", "hackertarget", "dnsresolve", "portscan", "whois"} {
		assert.Contains(t, out, key)
	}
	assert.Contains(t, out, "open_ports")
}

func TestProbesCommand_SingleKey(t *testing.T) {
	out, _, err := execute(t, "probes", "WHOIS")
	require.NoError(t, err)
	assert.Contains(t, out, "registration")
	assert.NotContains(t, out, "open_ports")

	_, _, err = execute(t, "probes", "shodan")
	assert.Equal(t, exitConfig, exitCode(err))
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestUnknownProbeKeys(t *testing.T) {
	got := unknownProbeKeys(map[string]ports.ProbeConfig{
		"portscan": {},
		"shodan":   {},
		"amass":    {},
	})
	assert.Equal(t, []string{"amass", "shodan"}, got)
	assert.Empty(t, unknownProbeKeys(nil))
}

func TestBuildPresenter(t *testing.T) {
	var buf bytes.Buffer

	assert.IsType(t, &ui.RawPresenter{}, buildPresenter(config.Config{UI: config.UIRaw}, &buf))
	assert.IsType(t, &ui.NoopPresenter{}, buildPresenter(config.Config{UI: config.UIQuiet}, &buf))
	assert.IsType(t, &ui.PTermPresenter{}, buildPresenter(config.Config{UI: config.UIPterm}, &buf))
}
