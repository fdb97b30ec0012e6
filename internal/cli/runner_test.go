package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tasks/internal/config"
	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store/jsonstore"
	"github.com/idilsaglam/tasks/internal/ui"
)

type harness struct {
	t    *testing.T
	data string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv(config.EnvConfig, "")
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Cleanup(func() { ui.SetTheme("classic") })
	return &harness{t: t, data: filepath.Join(t.TempDir(), "tasks.json")}
}

// run executes the CLI against the harness data file in mono, colourless mode.
func (h *harness) run(args ...string) (code int, stdout, stderr string) {
	h.t.Helper()
	var out, errb bytes.Buffer
	full := append([]string{"--data", h.data, "--theme", "mono", "--no-color"}, args...)
	code = Run(full, Options{Stdout: &out, Stderr: &errb})
	return code, out.String(), errb.String()
}

func (h *harness) tasks() []model.Task {
	h.t.Helper()
	tasks, err := jsonstore.New(h.data).Load()
	require.NoError(h.t, err)
	return tasks
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)

	code, out, _ := h.run("add", "Buy", "milk")
	require.Equal(t, ExitOK, code)
	assert.True(t, strings.HasPrefix(out, "x added "))

	code, _, _ = h.run("add", "Walk dog")
	require.Equal(t, ExitOK, code)

	tasks := h.tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "Buy milk", tasks[0].Description)
	assert.Equal(t, "Walk dog", tasks[1].Description)
	assert.Contains(t, out, tasks[0].ID.String())

	code, out, _ = h.run("ls")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, " 1. [ ] Buy milk")
	assert.Contains(t, out, " 2. [ ] Walk dog")
	assert.NotContains(t, out, tasks[0].ID.String())

	_, out, _ = h.run("ls", "--ids")
	assert.Contains(t, out, tasks[0].ID.String())
}

func TestAddEmptyDescriptionIsUsageError(t *testing.T) {
	h := newHarness(t)

	code, _, errOut := h.run("add", "   ")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "description")

	code, _, _ = h.run("add")
	assert.Equal(t, ExitUsage, code)
	assert.Empty(t, h.tasks())
}

func TestDoneByDescriptionMarksFirstMatch(t *testing.T) {
	h := newHarness(t)
	h.run("add", "Dup")
	h.run("add", "Dup")

	code, out, _ := h.run("done", "Dup")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "marked done")

	tasks := h.tasks()
	assert.True(t, tasks[0].Done)
	assert.False(t, tasks[1].Done)

	_, out, _ = h.run("ls", "--group")
	assert.Contains(t, out, "Pending")
	assert.Contains(t, out, "[x] Dup")
}

func TestDoneByID(t *testing.T) {
	h := newHarness(t)
	h.run("add", "a")
	h.run("add", "b")
	id := h.tasks()[1].ID

	code, _, _ := h.run("done", "--id", id.String())
	require.Equal(t, ExitOK, code)
	tasks := h.tasks()
	assert.False(t, tasks[0].Done)
	assert.True(t, tasks[1].Done)

	code, _, _ = h.run("done", "--id", id.String())
	assert.Equal(t, ExitOK, code, "idempotent")
}

func TestDoneNoMatch(t *testing.T) {
	h := newHarness(t)

	code, _, errOut := h.run("done", "X")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut, `no task matches "X"`)

	code, _, _ = h.run("done", "--id", uuid.NewString())
	assert.Equal(t, ExitError, code)
}

func TestDoneBadArguments(t *testing.T) {
	h := newHarness(t)

	code, _, errOut := h.run("done", "--id", "not-a-uuid")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "not a task id")

	code, _, _ = h.run("done", "--id", uuid.Nil.String())
	assert.Equal(t, ExitUsage, code, "nil id fails validation")

	code, _, _ = h.run("done", "--id", uuid.NewString(), "extra")
	assert.Equal(t, ExitUsage, code)

	code, _, _ = h.run("done")
	assert.Equal(t, ExitUsage, code)
}

func TestRemove(t *testing.T) {
	h := newHarness(t)
	h.run("add", "Task to be removed")
	h.run("add", "Task to stay")
	h.run("add", "other")

	code, out, _ := h.run("rm", "Task to be removed")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "removed")

	tasks := h.tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "Task to stay", tasks[0].Description)

	code, _, _ = h.run("rm", "--id", tasks[1].ID.String())
	require.Equal(t, ExitOK, code)
	tasks = h.tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Task to stay", tasks[0].Description)

	code, _, _ = h.run("rm", "Task to be removed")
	assert.Equal(t, ExitError, code)
}

func TestFind(t *testing.T) {
	h := newHarness(t)
	h.run("add", "X")
	h.run("add", "Y")
	h.run("add", "X")
	tasks := h.tasks()

	code, out, _ := h.run("find", "X")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, tasks[0].ID.String())
	assert.Contains(t, out, tasks[2].ID.String())
	assert.NotContains(t, out, tasks[1].ID.String())

	code, out, _ = h.run("find", "Z")
	assert.Equal(t, ExitOK, code, "no match is not an error")
	assert.Contains(t, out, "no matching tasks")
}

func TestUsage(t *testing.T) {
	h := newHarness(t)

	code, out, _ := h.run()
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, out, "Usage:")

	code, _, errOut := h.run("bogus")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "unknown subcommand: bogus")

	code, _, _ = h.run("--nope", "ls")
	assert.Equal(t, ExitUsage, code)

	code, _, _ = h.run("ls", "extra")
	assert.Equal(t, ExitUsage, code)

	code, _, _ = h.run("help")
	assert.Equal(t, ExitOK, code)
}

func TestCorruptDataFile(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(h.data, []byte("not json"), 0o644))

	code, _, errOut := h.run("ls")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut, "load")
}

func TestDuplicateIDsOnDiskAreRuntimeError(t *testing.T) {
	h := newHarness(t)
	id := uuid.New()
	require.NoError(t, jsonstore.New(h.data).Save([]model.Task{
		{ID: id, Description: "a"},
		{ID: id, Description: "b"},
	}))

	code, _, errOut := h.run("ls")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut, "duplicate")
}

func TestConfigFileSuppliesDataPathAndGrouping(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	data := filepath.Join(dir, "from-config.json")
	cfgPath := filepath.Join(dir, "tasks.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("data_file: "+data+"\ngroup: true\ntheme: mono\nno_color: true\n"), 0o644))

	var out, errb bytes.Buffer
	code := Run([]string{"--config", cfgPath, "add", "from config"}, Options{Stdout: &out, Stderr: &errb})
	require.Equal(t, ExitOK, code, errb.String())

	tasks, err := jsonstore.New(data).Load()
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	out.Reset()
	code = Run([]string{"--config", cfgPath, "ls"}, Options{Stdout: &out, Stderr: &errb})
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out.String(), "Pending")

	_, err = os.Stat(h.data)
	assert.True(t, os.IsNotExist(err), "flag default data file untouched")
}

func TestBadThemeFlag(t *testing.T) {
	h := newHarness(t)
	var out, errb bytes.Buffer
	code := Run([]string{"--data", h.data, "--theme", "rainbow", "ls"}, Options{Stdout: &out, Stderr: &errb})
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errb.String(), "unknown theme")
}

func TestVerboseLogsToStderr(t *testing.T) {
	h := newHarness(t)
	code, _, errOut := h.run("-v", "add", "logged")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, errOut, "task added")
	assert.Contains(t, errOut, "level=DEBUG")
}

func TestDoneAndRemoveByIndex(t *testing.T) {
	h := newHarness(t)
	h.run("add", "first")
	h.run("add", "second")
	h.run("add", "third")

	code, _, _ := h.run("done", "--index", "2")
	require.Equal(t, ExitOK, code)
	tasks := h.tasks()
	assert.False(t, tasks[0].Done)
	assert.True(t, tasks[1].Done)

	code, _, _ = h.run("rm", "--index", "1")
	require.Equal(t, ExitOK, code)
	tasks = h.tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "second", tasks[0].Description)

	code, _, errOut := h.run("rm", "--index", "9")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, errOut, "index out of range: have 2, got 9")

	code, _, _ = h.run("rm", "--index", "-1")
	assert.Equal(t, ExitUsage, code)

	code, _, _ = h.run("rm", "--index", "1", "third")
	assert.Equal(t, ExitUsage, code)
	assert.Len(t, h.tasks(), 2)
}
