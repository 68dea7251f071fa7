package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/benchgen/benchgen/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// Loader reads benchgen.lua and applies its overrides to a base
// Settings value. The file runs in a sandboxed Lua VM with the
// read-only platform table injected, so settings can differ per
// platform without any imperative code.
type Loader struct {
	detector platform.Detector
}

// NewLoader creates a loader. The detector supplies the platform
// table; pass nil to parse without platform conditionals.
func NewLoader(detector platform.Detector) *Loader {
	return &Loader{detector: detector}
}

// Load reads base.ConfigPath() and returns base with the file's
// overrides applied. A missing file is not an error; the base value
// is returned unchanged.
func (l *Loader) Load(ctx context.Context, base Settings) (Settings, error) {
	code, err := os.ReadFile(base.ConfigPath())
	if errors.Is(err, os.ErrNotExist) {
		return base, nil
	}
	if err != nil {
		return base, fmt.Errorf("read settings file: %w", err)
	}
	return l.ParseString(ctx, base, string(code))
}

// ParseString applies overrides from Lua source to base. It expects a
// global "benchgen" table; fields absent from it keep their base
// values.
func (l *Loader) ParseString(ctx context.Context, base Settings, luaCode string) (Settings, error) {
	L := newSandboxedVM()
	defer L.Close()

	if l.detector != nil {
		info, err := l.detector.Detect(ctx)
		if err != nil {
			return base, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return base, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return base, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	merged, err := applyOverrides(L, base)
	if err != nil {
		return base, err
	}

	if err := merged.Validate(); err != nil {
		return base, &ParseError{
			Message: "settings validation failed",
			Detail:  err.Error(),
		}
	}
	return merged, nil
}

// ParseError represents a settings parsing error with a friendly
// message and the raw Lua detail.
type ParseError struct {
	Message string
	Detail  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// applyOverrides copies recognized fields of the global "benchgen"
// table onto base.
func applyOverrides(L *lua.LState, base Settings) (Settings, error) {
	global := L.GetGlobal("benchgen")
	if global.Type() != lua.LTTable {
		return base, &ParseError{
			Message: "missing or invalid 'benchgen' table",
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}
	table := global.(*lua.LTable)

	merged := base

	if v := table.RawGetString("manifest_url"); v.Type() == lua.LTString {
		merged.ManifestURL = v.String()
	}

	if v := table.RawGetString("install_dir"); v.Type() == lua.LTString {
		dir, err := expandPath(v.String())
		if err != nil {
			return base, err
		}
		merged.InstallDir = dir
	}

	if v := table.RawGetString("prerelease"); v.Type() == lua.LTBool {
		merged.Prerelease = bool(v.(lua.LBool))
	}

	if v := table.RawGetString("keyring"); v.Type() == lua.LTString {
		path, err := expandPath(v.String())
		if err != nil {
			return base, err
		}
		merged.KeyringPath = path
	}

	if v := table.RawGetString("http"); v.Type() == lua.LTTable {
		httpTable := v.(*lua.LTable)

		if tv := httpTable.RawGetString("timeout_seconds"); tv.Type() == lua.LTNumber {
			merged.HTTPTimeout = time.Duration(lua.LVAsNumber(tv)) * time.Second
		}
		if rv := httpTable.RawGetString("retries"); rv.Type() == lua.LTNumber {
			merged.HTTPRetries = int(lua.LVAsNumber(rv))
		}
	}

	return merged, nil
}
