package registry

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinYAML []byte

// fileFormat is the YAML layout of a registry file.
type fileFormat struct {
	Languages []Language `yaml:"languages"`
}

// Parse decodes a YAML registry document.
func Parse(data []byte) ([]Language, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Languages, nil
}

// LoadFile reads the registry file at path.
func LoadFile(path string) (*Registry, error) {
	langs, err := readFile(path)
	if err != nil {
		return nil, err
	}
	r, err := New(langs...)
	if err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	return r, nil
}

// ReloadFile replaces the contents of r with the file at path.
func (r *Registry) ReloadFile(path string) error {
	langs, err := readFile(path)
	if err != nil {
		return err
	}
	if err := r.Replace(langs); err != nil {
		return fmt.Errorf("registry %s: %w", path, err)
	}
	return nil
}

func readFile(path string) ([]Language, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry: %w", err)
	}
	langs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing registry %s: %w", path, err)
	}
	return langs, nil
}

// Builtin returns a new registry holding the languages compiled into the
// binary.
func Builtin() *Registry {
	langs, err := Parse(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("registry: builtin list: %v", err))
	}
	return MustNew(langs...)
}
