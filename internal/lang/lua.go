package lang

import (
	"context"
	"fmt"
	"sort"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// luaTimeout bounds a definition script's execution. Definition files
// are data with a little logic, not programs.
const luaTimeout = 2 * time.Second

// ParseLua executes a definitions script in a sandboxed Lua state and
// collects the entries of its global `languages` table:
//
//	languages["go"] = {
//	    extensions = {"go"},
//	    lexer = "cpp",
//	    keywords = { [0] = "break case chan const ..." },
//	    styles = { { id = 5, name = "INSEVERE", fgColor = 0x0000FF } },
//	}
//
// The state has no io, os, debug, or package libraries and cannot load
// further code.
func ParseLua(script string) ([]Language, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), luaTimeout)
	defer cancel()
	L.SetContext(ctx)

	L.SetGlobal("languages", L.NewTable())

	if err := L.DoString(script); err != nil {
		return nil, fmt.Errorf("executing language script: %w", err)
	}

	tbl, ok := L.GetGlobal("languages").(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("language script replaced the languages table")
	}

	var defs []Language
	var convErr error
	tbl.ForEach(func(key, value lua.LValue) {
		if convErr != nil {
			return
		}
		name, ok := key.(lua.LString)
		if !ok {
			convErr = fmt.Errorf("language key %v is not a string", key)
			return
		}
		entry, ok := value.(*lua.LTable)
		if !ok {
			convErr = fmt.Errorf("language %s is not a table", name)
			return
		}
		def, err := luaToLanguage(string(name), entry)
		if err != nil {
			convErr = err
			return
		}
		defs = append(defs, def)
	})
	if convErr != nil {
		return nil, convErr
	}

	// Lua table iteration order is unspecified.
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs, nil
}

func luaToLanguage(name string, t *lua.LTable) (Language, error) {
	def := Language{
		Name:        name,
		Lexer:       luaString(t, "lexer"),
		TabSettings: luaString(t, "tabSettings"),
		TabSize:     luaInt(t, "tabSize"),
	}
	if def.Lexer == "" {
		def.Lexer = name
	}

	if exts, ok := t.RawGetString("extensions").(*lua.LTable); ok {
		exts.ForEach(func(_, v lua.LValue) {
			def.Extensions = append(def.Extensions, lua.LVAsString(v))
		})
	}

	if kw, ok := t.RawGetString("keywords").(*lua.LTable); ok {
		def.Keywords = make(map[int]string)
		kw.ForEach(func(k, v lua.LValue) {
			if idx, ok := k.(lua.LNumber); ok {
				def.Keywords[int(idx)] = lua.LVAsString(v)
			}
		})
	}

	if props, ok := t.RawGetString("properties").(*lua.LTable); ok {
		def.Properties = make(map[string]string)
		props.ForEach(func(k, v lua.LValue) {
			def.Properties[lua.LVAsString(k)] = lua.LVAsString(v)
		})
	}

	if styles, ok := t.RawGetString("styles").(*lua.LTable); ok {
		var convErr error
		styles.ForEach(func(_, v lua.LValue) {
			st, ok := v.(*lua.LTable)
			if !ok {
				convErr = fmt.Errorf("language %s: style entry is not a table", name)
				return
			}
			def.Styles = append(def.Styles, Style{
				ID:        luaInt(st, "id"),
				Name:      luaString(st, "name"),
				FgColor:   luaInt(st, "fgColor"),
				BgColor:   luaInt(st, "bgColor"),
				FontStyle: luaInt(st, "fontStyle"),
			})
		})
		if convErr != nil {
			return Language{}, convErr
		}
	}

	return def, nil
}

func luaString(t *lua.LTable, key string) string {
	if s, ok := t.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

func luaInt(t *lua.LTable, key string) int {
	if n, ok := t.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return 0
}
