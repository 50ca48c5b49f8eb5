package game

import (
	"errors"
	"fmt"
)

// ConditionKind is the tag of a serialized rule condition.
type ConditionKind uint8

const (
	ConditionComparison ConditionKind = iota
	ConditionEventHappened
	ConditionZone
)

func (k ConditionKind) String() string {
	switch k {
	case ConditionComparison:
		return "comparison"
	case ConditionEventHappened:
		return "event_happened"
	case ConditionZone:
		return "zone"
	}
	return "invalid"
}

var (
	// ErrInvalidCondition is fatal: the rule description cannot be loaded.
	ErrInvalidCondition = errors.New("invalid rule condition tag")
	// ErrConditionUnsupported marks a known tag the loader does not handle.
	ErrConditionUnsupported = errors.New("rule condition not supported")
)

// DecodeConditionKind maps a serialized tag to its condition kind.
func DecodeConditionKind(tag byte) (ConditionKind, error) {
	switch k := ConditionKind(tag); k {
	case ConditionComparison:
		return k, fmt.Errorf("%s: %w", k, ErrConditionUnsupported)
	case ConditionEventHappened, ConditionZone:
		return k, nil
	}
	return 0, fmt.Errorf("tag %d: %w", tag, ErrInvalidCondition)
}
