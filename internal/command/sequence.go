package command

// SequenceResult is the outcome of validating an ordered batch.
// len(Valid)+len(Invalid) equals the number of commands processed, which in
// strict mode stops at the first rejection.
type SequenceResult struct {
	Valid       []Validated
	Invalid     []Validated
	Strict      bool
	ShouldAbort bool
}

// NormalizedCommands returns the normalized text of the accepted commands, in order
func (r SequenceResult) NormalizedCommands() []string {
	out := make([]string, len(r.Valid))
	for i, v := range r.Valid {
		out[i] = v.Normalized
	}
	return out
}

// FirstRejected returns the first rejected command, if any
func (r SequenceResult) FirstRejected() (Validated, bool) {
	if len(r.Invalid) == 0 {
		return Validated{}, false
	}
	return r.Invalid[0], true
}

// ValidateSequence validates commands in order.
//
// Strict mode stops at the first invalid command and aborts if one was found.
// Lenient mode validates everything and aborts only when nothing valid remains.
func (v *Validator) ValidateSequence(commands []string, strict bool) SequenceResult {
	result := SequenceResult{
		Valid:   make([]Validated, 0, len(commands)),
		Invalid: []Validated{},
		Strict:  strict,
	}

	for _, raw := range commands {
		validated := v.Validate(raw)
		if validated.Valid {
			result.Valid = append(result.Valid, validated)
			continue
		}
		result.Invalid = append(result.Invalid, validated)
		if strict {
			break
		}
	}

	if strict {
		result.ShouldAbort = len(result.Invalid) > 0
	} else {
		result.ShouldAbort = len(result.Valid) == 0
	}
	return result
}

// ValidateSequence validates against the built-in whitelist
func ValidateSequence(commands []string, strict bool) SequenceResult {
	return defaultValidator.ValidateSequence(commands, strict)
}
