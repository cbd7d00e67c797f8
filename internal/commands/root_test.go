package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bash-zoo/select/internal/runner"
	"github.com/bash-zoo/select/internal/source"
)

const examplePayload = `{"title":"Pick","choices":[{"name":"a"},{"name":"b","message":"B"}]}`

type execResult struct {
	stdout string
	stderr string
	err    error
}

// execute runs the root command with isolated config lookup and the given
// stdin.
func execute(t *testing.T, stdin string, args ...string) execResult {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := RootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return execResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestRoot_PlainBackendSelectsBoth(t *testing.T) {
	t.Setenv(source.PayloadEnv, examplePayload)

	res := execute(t, "1,2\n", "--backend", "plain")

	require.NoError(t, res.err)
	assert.Equal(t, "a\nb\n", res.stdout)
	assert.Contains(t, res.stderr, "Pick")
	assert.Contains(t, res.stderr, "B")
}

func TestRoot_PayloadFromFileArgument(t *testing.T) {
	t.Setenv(source.PayloadEnv, "")
	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(examplePayload), 0644))

	// stdin carries the answer because the file wins over it
	res := execute(t, "2\n", "--backend", "plain", path)

	require.NoError(t, res.err)
	assert.Equal(t, "b\n", res.stdout)
}

func TestRoot_Cancel(t *testing.T) {
	t.Setenv(source.PayloadEnv, examplePayload)

	res := execute(t, "q\n", "--backend", "plain")

	assert.NoError(t, res.err, "cancelling exits 0")
	assert.Empty(t, res.stdout)
}

func TestRoot_InvalidPayload(t *testing.T) {
	t.Setenv(source.PayloadEnv, "{")

	res := execute(t, "", "--backend", "plain")

	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, ErrFailed))
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, runner.MsgInvalidPayload)
}

func TestRoot_NoPayload(t *testing.T) {
	t.Setenv(source.PayloadEnv, "")

	res := execute(t, "", "--backend", "plain")

	require.Error(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, runner.MsgInvalidPayload)
}

func TestRoot_PayloadFromStdin(t *testing.T) {
	t.Setenv(source.PayloadEnv, "")

	// stdin is consumed as the payload, so the plain prompt sees EOF and
	// the run counts as cancelled.
	res := execute(t, examplePayload, "--backend", "plain")

	assert.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Pick")
}

func TestRoot_UnknownBackend(t *testing.T) {
	t.Setenv(source.PayloadEnv, examplePayload)

	res := execute(t, "", "--backend", "nope")

	require.Error(t, res.err)
	assert.Contains(t, res.stderr, runner.MsgBackendUnavailable)
	assert.Empty(t, res.stdout)
}

func TestRoot_BackendFromConfigFile(t *testing.T) {
	t.Setenv(source.PayloadEnv, examplePayload)
	path := filepath.Join(t.TempDir(), "select.yml")
	require.NoError(t, os.WriteFile(path, []byte("backends: [plain]\nhint: pick some\n"), 0644))

	res := execute(t, "all\n", "--config", path)

	require.NoError(t, res.err)
	assert.Equal(t, "a\nb\n", res.stdout)
}

func TestRoot_InvalidConfig(t *testing.T) {
	res := execute(t, "", "--config", filepath.Join(t.TempDir(), "missing.yml"))

	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, ErrFailed))
	assert.Contains(t, res.stderr, "Invalid configuration")
}

func TestRoot_Schema(t *testing.T) {
	res := execute(t, "", "--schema")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"choices"`)
	assert.Contains(t, res.stdout, `"name"`)
}

func TestRoot_DumpConfig(t *testing.T) {
	t.Setenv("BZ_SELECT_ROWS_MAX", "25")

	res := execute(t, "", "--dump-config", "--backend", "plain")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "max: 25")
	assert.Contains(t, res.stdout, "- plain")
	assert.NotContains(t, res.stdout, "- tea")
}

func TestRoot_Version(t *testing.T) {
	res := execute(t, "", "--version")

	require.NoError(t, res.err)
	assert.Equal(t, "select "+Version+"\n", res.stdout)
}

func TestRoot_ExtraArgsIgnored(t *testing.T) {
	t.Setenv(source.PayloadEnv, "")
	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(examplePayload), 0644))

	res := execute(t, "1\n", "--backend", "plain", path, "extra", "args")

	require.NoError(t, res.err)
	assert.Equal(t, "a\n", res.stdout)
}

func TestRoot_UnknownFlagIsReported(t *testing.T) {
	res := execute(t, "", "--no-such-flag")

	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, ErrFailed))
	assert.Contains(t, res.stderr, "unknown flag: --no-such-flag")
	assert.Empty(t, res.stdout)
}

func TestBackendUsage(t *testing.T) {
	cmd := RootCmd()
	flag := cmd.Flags().Lookup("backend")
	require.NotNil(t, flag)

	assert.Contains(t, flag.Usage, "Prompt backends to try, in order:")
	assert.Contains(t, flag.Usage, "plain  Numbered list")
	assert.Contains(t, flag.Usage, "tea    Interactive terminal list")
	assert.Less(t, strings.Index(flag.Usage, "plain"), strings.Index(flag.Usage, "tea "))
}
