package command

import (
	"strings"
)

// EmptyToken is the base token reported for blank commands.
const EmptyToken = "<empty>"

// Validated is the immutable record of one validation attempt.
type Validated struct {
	Raw        string
	Normalized string
	BaseToken  string
	Valid      bool
	Err        string // set iff !Valid
}

// Validator checks commands against a whitelist
type Validator struct {
	whitelist *Whitelist
}

// NewValidator creates a validator. A nil whitelist means DefaultWhitelist.
func NewValidator(wl *Whitelist) *Validator {
	if wl == nil {
		wl = DefaultWhitelist()
	}
	return &Validator{whitelist: wl}
}

// Whitelist returns the validator's whitelist
func (v *Validator) Whitelist() *Whitelist {
	return v.whitelist
}

// Validate normalizes one command and checks its base token
func (v *Validator) Validate(raw string) Validated {
	normalized := strings.TrimSpace(raw)
	if normalized == "" {
		return Validated{
			Raw:        raw,
			Normalized: normalized,
			BaseToken:  EmptyToken,
			Err:        "Command not allowed: /" + EmptyToken + " (empty command)",
		}
	}

	base := BaseToken(normalized)
	if !v.whitelist.Contains(base) {
		return Validated{
			Raw:        raw,
			Normalized: normalized,
			BaseToken:  base,
			Err:        "Command not allowed: /" + base,
		}
	}

	return Validated{Raw: raw, Normalized: normalized, BaseToken: base, Valid: true}
}

// BaseToken derives the whitelist key from a trimmed, non-empty command.
// Macro commands keep their marker so they never collide with plain commands;
// a single leading slash on a plain command is dropped.
func BaseToken(normalized string) string {
	if strings.HasPrefix(normalized, MacroMarker) {
		return MacroMarker + firstWord(normalized[len(MacroMarker):])
	}
	return firstWord(strings.TrimPrefix(normalized, "/"))
}

// firstWord returns the first whitespace-delimited word, or "" when s is blank
// or starts with whitespace (a bare marker followed by a space).
func firstWord(s string) string {
	if i := strings.IndexFunc(s, isSpace); i >= 0 {
		return s[:i]
	}
	return s
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}

// SinkForm converts a validated command into what the sink expects.
// The sink re-adds one slash on its side, so exactly one leading slash is
// stripped: "//set stone" is sent as "/set stone", "/time set day" as "time set day".
func SinkForm(normalized string) string {
	return strings.TrimPrefix(normalized, "/")
}

// Namespace labels a command as "macro" or "plain"
func Namespace(normalized string) string {
	if strings.HasPrefix(normalized, MacroMarker) {
		return "macro"
	}
	return "plain"
}

var defaultValidator = NewValidator(nil)

// Validate checks raw against the built-in whitelist
func Validate(raw string) Validated {
	return defaultValidator.Validate(raw)
}
