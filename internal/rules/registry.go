package rules

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// DefaultTable is the table used when none is configured.
const DefaultTable = "ai-writing"

// Load parses and compiles a builtin table by name
func Load(name string) (*Table, error) {
	data, err := builtinFS.ReadFile(path.Join("builtin", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	return Parse(data)
}

// Available returns the names of all builtin tables, sorted
func Available() []string {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// LoadFile loads a user-defined table from a YAML file
func LoadFile(filePath string) (*Table, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule table: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return t, nil
}

// Resolve loads nameOrPath as a builtin table name, falling back to a file
// path when it names an existing file.
func Resolve(nameOrPath string) (*Table, error) {
	if nameOrPath == "" {
		nameOrPath = DefaultTable
	}
	if _, err := os.Stat(nameOrPath); err == nil {
		return LoadFile(nameOrPath)
	}
	return Load(nameOrPath)
}

// Parse checks data against the table schema, then decodes and compiles it
func Parse(data []byte) (*Table, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse rule table: %w", err)
	}
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode rule table: %w", err)
	}
	return Compile(&f)
}
