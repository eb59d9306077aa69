package domain

import "errors"

var (
	ErrUnknownStep   = errors.New("unknown handover step")
	ErrNotDraft      = errors.New("handover is not a draft")
	ErrInvalidStatus = errors.New("invalid handover status")
)
