package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with input and args, returning stdout,
// stderr and the error.
func execute(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "satman", cmd.Use)
	assert.Contains(t, cmd.Short, "SAT results manager")
	assert.Contains(t, cmd.Long, "numbered menu")
}

func TestFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.Flags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	for _, name := range []string{"config", "data", "max-score"} {
		require.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestRejectsArgs(t *testing.T) {
	_, _, err := execute(t, "", "extra")
	require.Error(t, err)
}

func TestRun_InsertAndExit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	input := strings.Join([]string{"1", "alice", "", "", "", "411001", "1200", "", "9"}, "\n") + "\n"

	out, _, err := execute(t, input, "--data", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully added alice (Score: 1200, Status: PASS)")
	assert.Contains(t, out, "Press Enter to continue...")
	assert.Contains(t, out, "Goodbye!")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"alice"`)
}

func TestRun_MaxScoreFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	out, _, err := execute(t, "9\n", "--data", path, "--max-score", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "Default max score is 100.")
	assert.Contains(t, out, "max score: 100")
}

func TestRun_InvalidMaxScoreFlag(t *testing.T) {
	for _, v := range []string{"-1", "0", "NaN", "Inf"} {
		t.Run(v, func(t *testing.T) {
			_, _, err := execute(t, "9\n", "--data", filepath.Join(t.TempDir(), "x.json"), "--max-score="+v)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestRun_NonFiniteMaxScoreEnv(t *testing.T) {
	t.Setenv("SATMAN_DEFAULT_MAX_SCORE", "NaN")
	_, _, err := execute(t, "9\n", "--data", filepath.Join(t.TempDir(), "x.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "default_max_score")
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "from-config.json")
	cfgPath := filepath.Join(dir, "satman.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("data_file: "+dataPath+"\ndefault_max_score: 800\n"), 0o644))

	out, _, err := execute(t, "8\n\n9\n", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "[Saved] Data written to "+dataPath)
	assert.Contains(t, out, "Max score: 800")

	_, err = os.Stat(dataPath)
	require.NoError(t, err)
}

func TestRun_EnvOverride(t *testing.T) {
	dataPath := filepath.Join(t.TempDir(), "from-env.json")
	t.Setenv("SATMAN_DATA_FILE", dataPath)

	out, _, err := execute(t, "8\n\n9\n")
	require.NoError(t, err)
	assert.Contains(t, out, "[Saved] Data written to "+dataPath)
}

func TestRun_BadConfigFile(t *testing.T) {
	_, _, err := execute(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_VerboseLogsToStderr(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	out, errOut, err := execute(t, "9\n", "--data", path, "-v")
	require.NoError(t, err)
	assert.Contains(t, errOut, "level=DEBUG")
	assert.Contains(t, errOut, "session=")
	assert.NotContains(t, out, "level=")
}

func TestRun_CorruptDataFileWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	out, errOut, err := execute(t, "9\n", "--data", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Warning: Could not load data file")
	assert.Contains(t, errOut, "level=WARN")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(configError("bad config", errors.New("flag"))))
	assert.Equal(t, ExitFailure, GetExitCode(fmt.Errorf("run: %w", sessionError(errors.New("boom")))))

	wrapped := sessionError(errors.New("inner"))
	assert.Equal(t, "session error: inner", wrapped.Error())
	assert.Equal(t, "inner", errors.Unwrap(wrapped).Error())
}
