package lang

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadDir reads every *.toml and *.lua definitions file in dir, in
// lexical order. A missing directory yields no definitions. A bad file
// does not abort the load: its error is joined into the returned error
// and the remaining files still contribute.
func LoadDir(dir string) ([]Language, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading language directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".toml", ".lua":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var defs []Language
	var errs []error
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}

		var parsed []Language
		if strings.EqualFold(filepath.Ext(name), ".lua") {
			parsed, err = ParseLua(string(data))
		} else {
			parsed, err = ParseTOML(data)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		defs = append(defs, parsed...)
	}

	return defs, errors.Join(errs...)
}

// LoadDirInto loads dir and replaces the registry contents with the
// result.
func LoadDirInto(dir string, reg *Registry) error {
	defs, err := LoadDir(dir)
	reg.Replace(defs)
	return err
}
