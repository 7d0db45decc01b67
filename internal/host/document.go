// Package host provides an in-memory editor window: a set of open documents
// and their editing views. It stands in for the host editor in tests and in
// the simulate command of the CLI.
package host

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/customindent/internal/indent"
)

// Default view settings of a freshly opened document.
const (
	DefaultTabWidth     = 8
	DefaultInsertSpaces = false
)

// Document represents an open file with its view state.
type Document struct {
	// ID uniquely identifies the document within a process.
	ID string

	// Path is the file path (empty for scratch buffers).
	Path string

	// Name is the display name (filename or "Untitled").
	Name string

	mu           sync.RWMutex
	language     indent.LanguageID
	hasLanguage  bool
	tabWidth     int
	insertSpaces bool
	viewChanges  int
}

// View is a snapshot of a document's indentation settings.
type View struct {
	TabWidth     int
	InsertSpaces bool
}

// NewDocument creates a document for path with the language detected from
// its name.
func NewDocument(path string) *Document {
	d := newDocument(path, filepath.Base(path))
	if lang, ok := DetectLanguage(path); ok {
		d.SetLanguage(lang)
	}
	return d
}

// NewScratchDocument creates an untitled document without a language.
func NewScratchDocument() *Document {
	return newDocument("", "Untitled")
}

func newDocument(path, name string) *Document {
	return &Document{
		ID:           uuid.NewString(),
		Path:         path,
		Name:         name,
		tabWidth:     DefaultTabWidth,
		insertSpaces: DefaultInsertSpaces,
	}
}

// Language returns the document's language id.
func (d *Document) Language() (indent.LanguageID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.language, d.hasLanguage
}

// SetLanguage assigns a language to the document.
func (d *Document) SetLanguage(id indent.LanguageID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.language = id
	d.hasLanguage = id != ""
}

// ClearLanguage removes the language, as for a plain text buffer.
func (d *Document) ClearLanguage() {
	d.SetLanguage("")
}

// View returns the current view settings.
func (d *Document) View() View {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return View{TabWidth: d.tabWidth, InsertSpaces: d.insertSpaces}
}

// ViewChanges returns how many view setters have been applied.
func (d *Document) ViewChanges() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.viewChanges
}

// IsScratch returns true if this is a scratch buffer (no file path).
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

func (d *Document) setTabWidth(width int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tabWidth = width
	d.viewChanges++
}

func (d *Document) setInsertSpaces(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.insertSpaces = on
	d.viewChanges++
}

var _ indent.Document = (*Document)(nil)

// DetectLanguage maps a file name to a language id of the built-in
// registry.
func DetectLanguage(path string) (indent.LanguageID, bool) {
	switch strings.ToLower(filepath.Base(path)) {
	case "makefile", "gnumakefile":
		return "makefile", true
	case "dockerfile":
		return "dockerfile", true
	case "cmakelists.txt":
		return "cmake", true
	case "meson.build":
		return "meson", true
	}

	var id indent.LanguageID
	switch strings.ToLower(filepath.Ext(path)) {
	case ".c", ".h":
		id = "c"
	case ".cpp", ".cc", ".cxx", ".hpp", ".hh":
		id = "cpp"
	case ".cs":
		id = "c-sharp"
	case ".css":
		id = "css"
	case ".d":
		id = "d"
	case ".dart":
		id = "dart"
	case ".diff", ".patch":
		id = "diff"
	case ".ex", ".exs":
		id = "elixir"
	case ".erl", ".hrl":
		id = "erlang"
	case ".f90", ".f95":
		id = "fortran"
	case ".go":
		id = "go"
	case ".hs":
		id = "haskell"
	case ".html", ".htm":
		id = "html"
	case ".ini", ".cfg":
		id = "ini"
	case ".java":
		id = "java"
	case ".js", ".mjs":
		id = "js"
	case ".json":
		id = "json"
	case ".jl":
		id = "julia"
	case ".kt", ".kts":
		id = "kotlin"
	case ".tex":
		id = "latex"
	case ".lua":
		id = "lua"
	case ".md", ".markdown":
		id = "markdown"
	case ".m":
		id = "objc"
	case ".ml", ".mli":
		id = "ocaml"
	case ".pl", ".pm":
		id = "perl"
	case ".php":
		id = "php"
	case ".py":
		id = "python3"
	case ".r":
		id = "r"
	case ".rb":
		id = "ruby"
	case ".rs":
		id = "rust"
	case ".scala":
		id = "scala"
	case ".scm", ".ss":
		id = "scheme"
	case ".sh", ".bash":
		id = "sh"
	case ".sql":
		id = "sql"
	case ".swift":
		id = "swift"
	case ".toml":
		id = "toml"
	case ".ts", ".tsx":
		id = "typescript"
	case ".vala":
		id = "vala"
	case ".xml":
		id = "xml"
	case ".yaml", ".yml":
		id = "yaml"
	default:
		return "", false
	}
	return id, true
}
