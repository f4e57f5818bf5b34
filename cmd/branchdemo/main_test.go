package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sghaida/osingleton/branch"
	"github.com/sghaida/osingleton/singleton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

//
// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// runDemo executes run with a fresh holder registry and returns the exit code and outputs.
func runDemo(t *testing.T, args []string, environ map[string]string) (int, string, string) {
	t.Helper()

	if environ == nil {
		environ = map[string]string{}
	}
	var stdout, stderr bytes.Buffer
	code := run(args, environ, singleton.NewRegistry(), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }

//
// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

// TestRun_Defaults verifies the full walkthrough with default values.
func TestRun_Defaults(t *testing.T) {
	t.Parallel()

	code, out, errOut := runDemo(t, nil, nil)
	require.Equal(t, 0, code, errOut)

	assert.Contains(t, out, `Attempting to create branch "New York"`)
	assert.Contains(t, out, "This is branch A: {Name:New York Telephone:555-5000}")
	assert.Contains(t, out, `Attempting to create branch "Amsterdam"`)
	assert.Contains(t, out, "This is branch B: {Name:New York Telephone:555-5000}")
	assert.Contains(t, out, "Branch A is the same as Branch B: true")
	assert.Contains(t, out, "There is only one Branch object in this process: true")
	assert.Contains(t, out, "We have successfully implemented a Singleton pattern: true")
	assert.Contains(t, out, `Update refused: branch: permission denied to update "telephone"`)
	assert.Contains(t, out, "Branch info: {Name:New York Telephone:777-7000}")

	// Unauthorized info appears before the authorized one.
	denied := strings.Index(out, "Branch info: {Name:New York Telephone:555-5000}")
	granted := strings.Index(out, "Branch info: {Name:New York Telephone:777-7000}")
	require.GreaterOrEqual(t, denied, 0)
	assert.Less(t, denied, granted)

	assert.Contains(t, errOut, "telephone update denied")
}

// TestRun_FlagsOverrideEnv verifies flags take precedence over BRANCH_* variables.
func TestRun_FlagsOverrideEnv(t *testing.T) {
	t.Parallel()

	code, out, errOut := runDemo(t,
		[]string{"--name", "Berlin", "--second-name", "Paris", "--new-telephone", "123"},
		map[string]string{"BRANCH_NAME": "Oslo", "BRANCH_TELEPHONE": "999"},
	)
	require.Equal(t, 0, code, errOut)

	assert.Contains(t, out, "This is branch A: {Name:Berlin Telephone:999}")
	assert.Contains(t, out, "This is branch B: {Name:Berlin Telephone:999}")
	assert.Contains(t, out, "Branch info: {Name:Berlin Telephone:123}")
}

// TestRun_UnicodeNames verifies non-ASCII names from flags and env are accepted.
func TestRun_UnicodeNames(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		args    []string
		environ map[string]string
		want    string
	}{
		{name: "flag", args: []string{"--name", "Zürich"}, want: "This is branch A: {Name:Zürich Telephone:555-5000}"},
		{name: "env", environ: map[string]string{"BRANCH_NAME": "São Paulo"}, want: "This is branch A: {Name:São Paulo Telephone:555-5000}"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			code, out, errOut := runDemo(t, tc.args, tc.environ)
			require.Equal(t, 0, code, errOut)
			assert.Contains(t, out, tc.want)
		})
	}
}

// TestRun_SeedFile verifies the YAML seed file feeds the first record.
func TestRun_SeedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("branch:\n  name: Lisbon\n  telephone: 111-1111\n"), 0o600))

	code, out, errOut := runDemo(t, nil, map[string]string{"BRANCH_SEED_FILE": path})
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "This is branch A: {Name:Lisbon Telephone:111-1111}")
}

// TestRun_SharedHolders verifies a second run on the same holders keeps the first branch.
func TestRun_SharedHolders(t *testing.T) {
	t.Parallel()

	holders := singleton.NewRegistry()
	var out1, out2, errOut bytes.Buffer

	require.Equal(t, 0, run([]string{"--name", "Rome"}, map[string]string{}, holders, &out1, &errOut))
	require.Equal(t, 0, run([]string{"--name", "Madrid"}, map[string]string{}, holders, &out2, &errOut))

	assert.Contains(t, out2.String(), "This is branch A: {Name:Rome Telephone:777-7000}")
}

// TestRun_Errors verifies user-facing failures exit non-zero with a message.
func TestRun_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		args    []string
		environ map[string]string
		wantSub string
	}{
		{name: "bad log level flag", args: []string{"--log-level", "loud"}, wantSub: "invalid log level"},
		{name: "bad log level env", environ: map[string]string{"BRANCH_LOG_LEVEL": "loud"}, wantSub: "invalid log level"},
		{name: "unexpected argument", args: []string{"extra"}, wantSub: "unknown command"},
		{name: "unknown flag", args: []string{"--nope"}, wantSub: "unknown flag"},
		{name: "invalid name", args: []string{"--name", "bad\tname"}, wantSub: "branch: invalid record"},
		{name: "missing seed file", environ: map[string]string{"BRANCH_SEED_FILE": "/does/not/exist.yaml"}, wantSub: "read seed file"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			code, _, errOut := runDemo(t, tc.args, tc.environ)
			assert.Equal(t, 1, code)
			assert.Contains(t, errOut, tc.wantSub)
		})
	}
}

//
// -----------------------------------------------------------------------------
// demo
// -----------------------------------------------------------------------------

// TestDemo_WriteError verifies output failures are reported.
func TestDemo_WriteError(t *testing.T) {
	t.Parallel()

	opts := options{secondName: "Amsterdam", newTelephone: "777-7000"}
	err := demo(branch.Record{Name: "New York"}, opts, singleton.NewRegistry(), zap.NewNop(), failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write failed")
}
