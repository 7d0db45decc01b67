package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/customindent/internal/indent"
	"github.com/dshills/customindent/internal/storage"
)

const testLanguages = `languages:
  - {id: python3, name: Python}
  - {id: c, name: C}
  - {id: go, name: Go}
`

type fixture struct {
	dir       string
	settings  string
	languages string
	config    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		dir:       dir,
		settings:  filepath.Join(dir, "settings.toml"),
		languages: filepath.Join(dir, "languages.yaml"),
		config:    filepath.Join(dir, "config.toml"),
	}
	require.NoError(t, os.WriteFile(f.languages, []byte(testLanguages), 0o644))
	return f
}

func (f *fixture) seed(t *testing.T, prefs map[indent.LanguageID]indent.Preference) {
	t.Helper()
	require.NoError(t, storage.NewFileBackend(f.settings).Save(context.Background(), prefs))
}

func (f *fixture) persisted(t *testing.T) map[indent.LanguageID]indent.Preference {
	t.Helper()
	prefs, found, err := storage.NewFileBackend(f.settings).Load(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	return prefs
}

// run executes the command line with the fixture's global flags.
func (f *fixture) run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errb bytes.Buffer
	full := append([]string{
		"--config", f.config,
		"--settings", f.settings,
		"--languages", f.languages,
		"--log-level", "error",
	}, args...)
	code, _ = Run(context.Background(), Streams{In: strings.NewReader(""), Out: &out, Err: &errb}, full)
	return code, out.String(), errb.String()
}

func TestList(t *testing.T) {
	f := newFixture(t)
	f.seed(t, map[indent.LanguageID]indent.Preference{
		"python3": {TabWidth: 2, UseSpaces: true},
		"c":       {TabWidth: 8, UseSpaces: false},
		"ocaml":   {TabWidth: 2, UseSpaces: true},
	})

	code, out, stderr := f.run(t, "list")
	require.Equal(t, 0, code, stderr)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, []string{"ID", "NAME", "WIDTH", "INDENT"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"c", "C", "8", "tabs"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"go", "Go", "4", "spaces"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"ocaml", "ocaml", "2", "spaces"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"python3", "Python", "2", "spaces"}, strings.Fields(lines[4]))

	code, out, _ = f.run(t, "list", "--by-name")
	require.Equal(t, 0, code)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "python3", strings.Fields(lines[3])[0])
	assert.Equal(t, "ocaml", strings.Fields(lines[4])[0])
}

func TestSetGet(t *testing.T) {
	f := newFixture(t)

	code, out, stderr := f.run(t, "set", "Python", "--tab-width", "2", "--spaces")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "python3: 2 spaces\n", out)

	code, out, _ = f.run(t, "get", "python3")
	require.Equal(t, 0, code)
	assert.Equal(t, "python3 (Python): 2 spaces\n", out)

	// Only the given field changes.
	code, _, stderr = f.run(t, "set", "python3", "--tabs")
	require.Equal(t, 0, code, stderr)

	prefs := f.persisted(t)
	assert.Equal(t, indent.Preference{TabWidth: 2, UseSpaces: false}, prefs["python3"])
	assert.Equal(t, indent.DefaultPreference, prefs["go"])
}

func TestSet_DebugLog(t *testing.T) {
	f := newFixture(t)

	code, _, stderr := f.run(t, "--log-level", "debug", "set", "go", "-w", "3")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "go set to 3")
	assert.Contains(t, stderr, "component=cli")
}

func TestSet_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no field", []string{"set", "c"}, "tab-width"},
		{"spaces and tabs", []string{"set", "c", "--spaces", "--tabs"}, "spaces"},
		{"width zero", []string{"set", "c", "-w", "0"}, "invalid preference"},
		{"width seventeen", []string{"set", "c", "-w", "17"}, "invalid preference"},
		{"unknown language", []string{"set", "Cobol", "-w", "4"}, "language not found"},
		{"missing argument", []string{"set", "-w", "4"}, "arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := f.run(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	f.seed(t, map[indent.LanguageID]indent.Preference{"c": {TabWidth: 8, UseSpaces: false}})

	code, out, stderr := f.run(t, "reset", "C")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "c: 4 spaces\n", out)
	assert.Equal(t, indent.DefaultPreference, f.persisted(t)["c"])

	code, _, stderr = f.run(t, "reset", "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "language not found")
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	f.seed(t, map[indent.LanguageID]indent.Preference{"c": {TabWidth: 8, UseSpaces: false}})

	code, out, stderr := f.run(t, "export", "--format", "json")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, `"version": "1.0.0"`)
	assert.Contains(t, out, `"tab_width": 8`)

	code, out, _ = f.run(t, "export")
	require.Equal(t, 0, code)
	prefs, err := storage.TOMLCodec{}.Decode("stdout", []byte(out))
	require.NoError(t, err)
	assert.Equal(t, indent.Preference{TabWidth: 8, UseSpaces: false}, prefs["c"])

	code, _, _ = f.run(t, "export", "--format", "yaml")
	assert.Equal(t, 1, code)
}

func TestPath(t *testing.T) {
	f := newFixture(t)

	code, out, _ := f.run(t, "path")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "settings:  "+f.settings)
	assert.Contains(t, out, "config:    "+f.config)
	assert.Contains(t, out, "languages: "+f.languages)
	assert.NotContains(t, out, "env:")

	// path does not read the settings.
	_, err := os.Stat(f.settings)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestPath_Environment(t *testing.T) {
	f := newFixture(t)
	t.Setenv("CUSTOMINDENT_TAB_WIDTH", "3")

	code, out, stderr := f.run(t, "path")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "env:       CUSTOMINDENT_TAB_WIDTH=3\n")
}

func TestRun(t *testing.T) {
	f := newFixture(t)
	script := filepath.Join(f.dir, "edit.lua")
	require.NoError(t, os.WriteFile(script, []byte(`
assert(indent.set("Go", 8, false))
local p = indent.get("go")
print("go", p.tab_width, p.use_spaces)
`), 0o644))

	code, out, stderr := f.run(t, "run", "--dry-run", script)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "go\t8\tfalse\n", out)
	_, err := os.Stat(f.settings)
	assert.True(t, errors.Is(err, os.ErrNotExist), "dry run wrote the settings")

	code, _, stderr = f.run(t, "run", script)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, indent.Preference{TabWidth: 8, UseSpaces: false}, f.persisted(t)["go"])

	bad := filepath.Join(f.dir, "bad.lua")
	require.NoError(t, os.WriteFile(bad, []byte(`error("nope")`), 0o644))
	code, _, stderr = f.run(t, "run", bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "nope")
}

func TestSimulate(t *testing.T) {
	f := newFixture(t)
	f.seed(t, map[indent.LanguageID]indent.Preference{
		"python3": {TabWidth: 2, UseSpaces: true},
		"c":       {TabWidth: 8, UseSpaces: false},
	})

	code, out, stderr := f.run(t, "simulate", "a.py", "b.c", "notes.txt", "Go")
	require.Equal(t, 0, code, stderr)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, []string{"a.py", "python3", "2", "spaces"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"b.c", "c", "8", "tabs"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"notes.txt", "-", "8", "tabs"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"Go", "go", "4", "spaces"}, strings.Fields(lines[4]))
}

func TestLoadFailure(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.settings, []byte("version = \"9.0.0\"\n"), 0o644))

	for _, args := range [][]string{{"list"}, {"get", "c"}, {"set", "c", "-w", "2"}} {
		code, _, stderr := f.run(t, args...)
		assert.Equal(t, 1, code, args)
		assert.Contains(t, stderr, "failed to load settings", args)
	}
}

type failingBackend struct{}

func (failingBackend) Load(context.Context) (map[indent.LanguageID]indent.Preference, bool, error) {
	return nil, false, nil
}

func (failingBackend) Save(context.Context, map[indent.LanguageID]indent.Preference) error {
	return errors.New("read-only file system")
}

func (failingBackend) Location() string { return "nowhere" }

func TestSaveFailure(t *testing.T) {
	f := newFixture(t)
	var out, errb bytes.Buffer

	deps := &Deps{Streams: Streams{Out: &out, Err: &errb}, Backend: failingBackend{}}
	cmd := NewRootCmd(deps)
	cmd.SetOut(&out)
	cmd.SetErr(&errb)
	cmd.SetArgs([]string{"--config", f.config, "--languages", f.languages, "set", "c", "-w", "2"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.True(t, indent.IsStorageError(err))
	assert.True(t, strings.HasPrefix(renderError(err), "failed to save settings"), renderError(err))
}

func TestRenderError(t *testing.T) {
	assert.Equal(t, "error: boom", renderError(errors.New("boom")))

	err := &indent.StorageError{Op: indent.OpLoad, Location: "x", Err: indent.ErrMalformedStorage}
	assert.True(t, strings.HasPrefix(renderError(err), "failed to load settings"))
}
