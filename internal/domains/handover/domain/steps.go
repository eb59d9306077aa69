package domain

import "fmt"

// StepKey names one section of the handover aggregate consumed by a wizard step.
type StepKey string

const (
	StepGeneral    StepKey = "general"
	StepProperty   StepKey = "property"
	StepCondition  StepKey = "condition"
	StepScheduling StepKey = "scheduling"
	StepMeters     StepKey = "meters"
	StepKeys       StepKey = "keys"
	StepPhotos     StepKey = "photos"
	StepAgreements StepKey = "agreements"
	StepSignatures StepKey = "signatures"
)

// StepKind distinguishes single-record sections from ordered list sections.
type StepKind int

const (
	KindRecord StepKind = iota + 1
	KindList
)

func (k StepKind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Steps lists every section in wizard order.
var Steps = []StepKey{
	StepGeneral,
	StepProperty,
	StepCondition,
	StepScheduling,
	StepMeters,
	StepKeys,
	StepPhotos,
	StepAgreements,
	StepSignatures,
}

// Kind reports whether the step holds a record or a list. Unknown steps return 0.
func (s StepKey) Kind() StepKind {
	switch s {
	case StepGeneral, StepProperty, StepCondition, StepScheduling, StepSignatures:
		return KindRecord
	case StepMeters, StepKeys, StepPhotos, StepAgreements:
		return KindList
	default:
		return 0
	}
}

// Valid reports whether s names a known section.
func (s StepKey) Valid() bool {
	return s.Kind() != 0
}

// ParseStep converts a raw step name into a StepKey.
func ParseStep(raw string) (StepKey, error) {
	step := StepKey(raw)
	if !step.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStep, raw)
	}
	return step, nil
}

// MustKind panics when the step is not of the wanted kind. Accessor constructors
// use it to reject list operations on record sections and vice versa.
func (s StepKey) MustKind(want StepKind) {
	if got := s.Kind(); got != want {
		panic(fmt.Sprintf("handover: step %q is a %s section, not %s", s, got, want))
	}
}
