package settings

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Generator writes a default benchgen.lua from a Settings value. The
// output parses back through Loader and is meant to be edited by hand.
type Generator struct {
	indent string
}

// NewGenerator creates a new settings file generator.
func NewGenerator() *Generator {
	return &Generator{
		indent: "  ",
	}
}

// Generate renders s as a commented Lua settings file.
func (g *Generator) Generate(s Settings) (string, error) {
	var buf bytes.Buffer

	buf.WriteString("-- benchgen configuration\n")
	buf.WriteString("-- Generated: ")
	buf.WriteString(time.Now().Format(time.RFC3339))
	buf.WriteString("\n--\n")
	buf.WriteString("-- Values here override the built-in defaults. The read-only\n")
	buf.WriteString("-- platform table is available for conditionals, e.g.\n")
	buf.WriteString("--   prerelease = platform.is_linux\n\n")

	buf.WriteString("benchgen = {\n")

	buf.WriteString(g.indent)
	buf.WriteString("manifest_url = ")
	buf.WriteString(g.quoteLuaString(s.ManifestURL))
	buf.WriteString(",\n")

	buf.WriteString(g.indent)
	buf.WriteString("install_dir = ")
	buf.WriteString(g.quoteLuaString(s.InstallDir))
	buf.WriteString(",\n")

	buf.WriteString(g.indent)
	buf.WriteString(fmt.Sprintf("prerelease = %t,\n", s.Prerelease))

	// Signature checking stays off until the keyring file exists, so
	// the path ships commented out.
	buf.WriteString(g.indent)
	buf.WriteString("-- keyring = ")
	buf.WriteString(g.quoteLuaString(s.KeyringPath))
	buf.WriteString(",\n")

	buf.WriteString(g.indent)
	buf.WriteString("http = {\n")
	buf.WriteString(g.indent)
	buf.WriteString(g.indent)
	buf.WriteString(fmt.Sprintf("timeout_seconds = %d,\n", int(s.HTTPTimeout.Seconds())))
	buf.WriteString(g.indent)
	buf.WriteString(g.indent)
	buf.WriteString(fmt.Sprintf("retries = %d,\n", s.HTTPRetries))
	buf.WriteString(g.indent)
	buf.WriteString("},\n")

	buf.WriteString("}\n")

	return buf.String(), nil
}

// quoteLuaString quotes a string for Lua, escaping special characters.
func (g *Generator) quoteLuaString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return "\"" + s + "\""
}
