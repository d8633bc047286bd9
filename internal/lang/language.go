// Package lang holds language definitions: the mapping from file
// extensions to a lexer configuration (styles, keyword sets, lexer
// properties). Definitions load from static TOML files or from Lua
// scripts, and can be hot-reloaded from a definitions directory.
package lang

import "strings"

// Style describes the presentation of one lexer style ID.
type Style struct {
	ID        int    `toml:"id"`
	Name      string `toml:"name"`
	FgColor   int    `toml:"fgColor"`
	BgColor   int    `toml:"bgColor"`
	FontStyle int    `toml:"fontStyle"`
}

// Language is one language definition. Keywords are keyed by the
// lexer's keyword-set index; Properties are passed to the lexer as
// opaque key/value pairs.
type Language struct {
	Name        string
	Lexer       string
	Extensions  []string
	TabSettings string
	TabSize     int
	Styles      []Style
	Keywords    map[int]string
	Properties  map[string]string
}

// normalizeExt lowercases an extension and strips the leading dot, so
// ".GO", ".go" and "go" configure the same key.
func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
