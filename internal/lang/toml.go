package lang

import (
	"fmt"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// tomlLanguage is the on-disk TOML shape. Keyword-set indices arrive as
// string keys (TOML tables cannot be integer-keyed) and convert on load.
type tomlLanguage struct {
	Name        string            `toml:"name"`
	Lexer       string            `toml:"lexer"`
	Extensions  []string          `toml:"extensions"`
	TabSettings string            `toml:"tabSettings"`
	TabSize     int               `toml:"tabSize"`
	Styles      []Style           `toml:"styles"`
	Keywords    map[string]string `toml:"keywords"`
	Properties  map[string]string `toml:"properties"`
}

type tomlFile struct {
	Languages []tomlLanguage `toml:"language"`
}

// ParseTOML decodes one TOML definitions file. A file declares one or
// more [[language]] blocks.
func ParseTOML(data []byte) ([]Language, error) {
	var file tomlFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing language definitions: %w", err)
	}

	defs := make([]Language, 0, len(file.Languages))
	for _, tl := range file.Languages {
		def, err := tl.toLanguage()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (tl tomlLanguage) toLanguage() (Language, error) {
	if tl.Name == "" {
		return Language{}, fmt.Errorf("language definition missing name")
	}

	def := Language{
		Name:        tl.Name,
		Lexer:       tl.Lexer,
		Extensions:  tl.Extensions,
		TabSettings: tl.TabSettings,
		TabSize:     tl.TabSize,
		Styles:      tl.Styles,
		Properties:  tl.Properties,
	}
	if def.Lexer == "" {
		def.Lexer = def.Name
	}

	if len(tl.Keywords) > 0 {
		def.Keywords = make(map[int]string, len(tl.Keywords))
		for key, words := range tl.Keywords {
			idx, err := strconv.Atoi(key)
			if err != nil {
				return Language{}, fmt.Errorf("language %s: keyword set %q is not an index", tl.Name, key)
			}
			def.Keywords[idx] = words
		}
	}
	return def, nil
}
