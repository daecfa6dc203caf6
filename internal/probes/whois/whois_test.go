// internal/probes/whois/whois_test.go
package whois

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redrecon/internal/core/ports"
	platformerrors "redrecon/internal/platform/errors"
	"redrecon/internal/platform/logx"
	"redrecon/internal/platform/registry"
	"redrecon/internal/testutil"
)

func newLookup(fn LookupFunc) (*Lookup, *testutil.InlinePool) {
	pool := &testutil.InlinePool{}
	return New(ports.DefaultProbeConfig(), pool, logx.NewNop()).WithLookup(fn), pool
}

func TestRun_ParsesRegistration(t *testing.T) {
	var asked string
	p, pool := newLookup(func(d string) (string, error) {
		asked = d
		return testutil.FixtureWhoisRaw, nil
	})

	res, err := p.Run(context.Background(), "example.com", nil)
	require.NoError(t, err)

	assert.Equal(t, "example.com", asked)
	assert.Equal(t, []string{"whois:example.com"}, pool.Submitted())
	assert.Equal(t, "whois", res.Source)
	assert.Equal(t, "registration", res.Type)
	require.True(t, res.Data.IsMapping())

	fields := res.Data.Fields()
	assert.Contains(t, fields["registrar"], "Internet Assigned Numbers Authority")
	assert.Contains(t, strings.ToLower(fields["name_servers"].(string)), "a.iana-servers.net")
	assert.Contains(t, fields, "expires")
}

func TestRun_NotFoundIsEmptyMapping(t *testing.T) {
	p, _ := newLookup(func(string) (string, error) {
		return "No match for domain \"NOPE-REDRECON-TEST.COM\".\n", nil
	})

	res, err := p.Run(context.Background(), "nope-redrecon-test.com", nil)
	require.NoError(t, err)
	assert.True(t, res.Data.IsMapping())
	assert.True(t, res.Data.IsEmpty())
}

func TestRun_LookupFailureIsProbeError(t *testing.T) {
	p, _ := newLookup(func(string) (string, error) {
		return "", errors.New("dial tcp: i/o timeout")
	})

	res, err := p.Run(context.Background(), "example.com", nil)
	assert.Nil(t, res)
	assert.ErrorContains(t, err, "i/o timeout")
	assert.True(t, platformerrors.IsConnectionFailed(err))
}

func TestRun_LookupDeadlineIsTimeout(t *testing.T) {
	p, _ := newLookup(func(string) (string, error) {
		return "", context.DeadlineExceeded
	})

	_, err := p.Run(context.Background(), "example.com", nil)
	assert.True(t, platformerrors.IsTimeout(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFactoryRequiresPool(t *testing.T) {
	assert.Empty(t, registry.Global().Discover(registry.NamespaceRecon, nil, registry.Env{Logger: logx.NewNop()}))

	probes := registry.Global().Discover(registry.NamespaceRecon, nil, registry.Env{
		Logger: logx.NewNop(),
		Pool:   &testutil.InlinePool{},
	})
	require.Len(t, probes, 1)
	assert.Equal(t, "WHOIS", probes[0].Name())
}
