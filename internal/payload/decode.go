package payload

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

var (
	ErrUnknownKind = errors.New("unknown response type")
	ErrMalformed   = errors.New("malformed response")
)

// DecodeError describes a response that could not be turned into a Payload.
type DecodeError struct {
	Kind   string // wire "type", empty when absent
	Detail string
	Err    error // ErrUnknownKind or ErrMalformed
}

func (e *DecodeError) Error() string {
	if errors.Is(e.Err, ErrUnknownKind) {
		return fmt.Sprintf("unknown response type: %s", e.Kind)
	}
	if e.Kind == "" {
		return fmt.Sprintf("malformed response: %s", e.Detail)
	}
	return fmt.Sprintf("malformed %s response: %s", e.Kind, e.Detail)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func malformed(kind, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Kind: kind, Detail: fmt.Sprintf(format, args...), Err: ErrMalformed}
}

// Wire shapes. Pointers distinguish absent fields from zero values.
type (
	envelope struct {
		Type *string `json:"type"`
	}
	textWire struct {
		Text *string `json:"text"`
	}
	commandWire struct {
		Command *string `json:"command"`
	}
	buildWire struct {
		Structure *string `json:"structure"`
		Width     *int    `json:"width"`
		Height    *int    `json:"height"`
		Depth     *int    `json:"depth"`
		Material  *string `json:"material"`
	}
	macroWire struct {
		Description *string   `json:"description"`
		Commands    *[]string `json:"commands"`
	}
)

// Decode parses one inference response. Every failure is a *DecodeError.
func Decode(data []byte) (Payload, error) {
	var env envelope
	if err := sonic.Unmarshal(data, &env); err != nil {
		return nil, malformed("", "%v", err)
	}
	if env.Type == nil {
		return nil, malformed("", "missing type")
	}

	kind := *env.Type
	switch Kind(kind) {
	case KindChat:
		text, err := decodeText(data, kind)
		if err != nil {
			return nil, err
		}
		return Chat{Text: text}, nil

	case KindError:
		text, err := decodeText(data, kind)
		if err != nil {
			return nil, err
		}
		return Error{Text: text}, nil

	case KindCommand:
		var w commandWire
		if err := sonic.Unmarshal(data, &w); err != nil {
			return nil, malformed(kind, "%v", err)
		}
		if w.Command == nil {
			return nil, malformed(kind, "missing command")
		}
		return Command{Command: *w.Command}, nil

	case KindBuild:
		return decodeBuild(data, kind)

	case KindMacro:
		return decodeMacro(data, kind)

	default:
		return nil, &DecodeError{Kind: kind, Err: ErrUnknownKind}
	}
}

func decodeText(data []byte, kind string) (string, error) {
	var w textWire
	if err := sonic.Unmarshal(data, &w); err != nil {
		return "", malformed(kind, "%v", err)
	}
	if w.Text == nil {
		return "", malformed(kind, "missing text")
	}
	return *w.Text, nil
}

func decodeBuild(data []byte, kind string) (Payload, error) {
	var w buildWire
	if err := sonic.Unmarshal(data, &w); err != nil {
		return nil, malformed(kind, "%v", err)
	}
	if w.Structure == nil {
		return nil, malformed(kind, "missing structure")
	}
	if w.Material == nil || *w.Material == "" {
		return nil, malformed(kind, "missing material")
	}

	dims := []struct {
		name  string
		value *int
	}{
		{"width", w.Width},
		{"height", w.Height},
		{"depth", w.Depth},
	}
	for _, d := range dims {
		if d.value == nil {
			return nil, malformed(kind, "missing %s", d.name)
		}
		if *d.value < 1 || *d.value > MaxDimension {
			return nil, malformed(kind, "%s must be between 1 and %d", d.name, MaxDimension)
		}
	}

	return Build{
		Template: *w.Structure,
		Width:    *w.Width,
		Height:   *w.Height,
		Depth:    *w.Depth,
		Material: *w.Material,
	}, nil
}

func decodeMacro(data []byte, kind string) (Payload, error) {
	var w macroWire
	if err := sonic.Unmarshal(data, &w); err != nil {
		return nil, malformed(kind, "%v", err)
	}
	if w.Description == nil {
		return nil, malformed(kind, "missing description")
	}
	if w.Commands == nil || len(*w.Commands) == 0 {
		return nil, malformed(kind, "missing commands")
	}
	if len(*w.Commands) > MaxMacroCommands {
		return nil, malformed(kind, "more than %d commands", MaxMacroCommands)
	}

	return MacroSequence{Description: *w.Description, Commands: *w.Commands}, nil
}
