package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/xapparel/internal/testutil"
)

// shop runs root commands against one temp database with a fixed clock
// (testutil.DefaultNow) and sequential IDs.
type shop struct {
	t     *testing.T
	db    string
	clock *testutil.FixedClock
	ids   *testutil.SequenceGenerator
}

func newShop(t *testing.T) *shop {
	t.Helper()
	return &shop{
		t:     t,
		db:    filepath.Join(t.TempDir(), "shop.db"),
		clock: testutil.NewFixedClock(testutil.DefaultNow),
		ids:   testutil.NewSequenceGenerator("id"),
	}
}

// run executes args and returns stdout, stderr and the command error.
func (s *shop) run(args ...string) (string, string, error) {
	s.t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	cmd := newRootCommand(&RootOptions{Clock: s.clock, IDs: s.ids})
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append([]string{"--db", s.db}, args...))

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// mustRun executes args and fails the test on error.
func (s *shop) mustRun(args ...string) string {
	s.t.Helper()
	out, errOut, err := s.run(args...)
	require.NoError(s.t, err, "stdout: %s\nstderr: %s", out, errOut)
	return out
}

// runJSON executes args with --format json and decodes the data payload
// into v. The response status is returned.
func (s *shop) runJSON(v any, args ...string) (CLIResponse, error) {
	s.t.Helper()
	out, _, err := s.run(append([]string{"--format", "json"}, args...)...)

	var raw struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(s.t, json.Unmarshal([]byte(out), &raw), out)
	if v != nil && len(raw.Data) > 0 {
		require.NoError(s.t, json.Unmarshal(raw.Data, v))
	}
	return CLIResponse{Status: raw.Status, Error: raw.Error}, err
}
