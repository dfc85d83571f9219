package command

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

// MacroMarker prefixes commands in the world-editing namespace.
const MacroMarker = "//"

// defaultTokens mirrors the generated command whitelist shipped with the client mod.
var defaultTokens = []string{
	// Vanilla
	"time", "weather", "give", "tp", "gamemode", "difficulty", "effect",
	"kill", "clear", "summon", "setblock", "fill", "clone", "enchant",
	"xp", "spawnpoint", "setworldspawn", "playsound", "title", "tellraw",
	"particle", "locate",
	// World editing
	"//set", "//replace", "//walls", "//outline", "//hollow",
	"//copy", "//paste", "//cut", "//rotate", "//flip", "//stack", "//move",
	"//undo", "//redo", "//pos1", "//pos2", "//hpos1", "//hpos2",
	"//expand", "//contract", "//shift",
	"//cyl", "//hcyl", "//sphere", "//hsphere", "//pyramid", "//hpyramid",
	"//wand", "//sel", "//line", "//curve", "//drain", "//regen",
}

// Whitelist is the immutable set of permitted base tokens.
// It has no mutation methods, so one instance is shared freely across goroutines.
type Whitelist struct {
	set map[string]struct{}
}

// NewWhitelist builds a whitelist from base tokens. Blank tokens are ignored.
func NewWhitelist(tokens ...string) *Whitelist {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		set[t] = struct{}{}
	}
	return &Whitelist{set: set}
}

// DefaultWhitelist returns the built-in vanilla + world-editing whitelist
func DefaultWhitelist() *Whitelist {
	return NewWhitelist(defaultTokens...)
}

// whitelistFile is the object form of a whitelist artifact.
type whitelistFile struct {
	Commands []string `yaml:"commands" json:"commands"`
}

// LoadWhitelist reads a whitelist artifact. The file is either a bare list of
// tokens or an object with a "commands" list, in YAML or JSON.
func LoadWhitelist(path string) (*Whitelist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read whitelist: %w", err)
	}
	return ParseWhitelist(data)
}

// ParseWhitelist decodes a whitelist artifact from memory
func ParseWhitelist(data []byte) (*Whitelist, error) {
	var tokens []string
	if err := yaml.Unmarshal(data, &tokens); err != nil {
		var file whitelistFile
		if objErr := yaml.Unmarshal(data, &file); objErr != nil {
			return nil, fmt.Errorf("failed to parse whitelist: %w", objErr)
		}
		tokens = file.Commands
	}

	wl := NewWhitelist(tokens...)
	if wl.Len() == 0 {
		return nil, fmt.Errorf("whitelist is empty")
	}
	return wl, nil
}

// Contains reports whether the base token is permitted
func (w *Whitelist) Contains(token string) bool {
	_, ok := w.set[token]
	return ok
}

// Len returns the number of permitted tokens
func (w *Whitelist) Len() int {
	return len(w.set)
}

// Tokens returns a sorted copy of the permitted tokens
func (w *Whitelist) Tokens() []string {
	out := make([]string, 0, len(w.set))
	for t := range w.set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
