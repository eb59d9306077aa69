// Package errors renders RFC 7807 problem details for the immo HTTP API.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail is an RFC 7807 problem document.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy carrying detail.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with key set. The receiver's map is never shared.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	ext := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		ext[k] = v
	}
	ext[key] = value
	p.Extensions = ext
	return p
}

// Problem type URIs, relative to the responder's base URI.
const (
	TypeBadRequest      = "/problems/bad-request"
	TypeNotFound        = "/problems/not-found"
	TypeSessionNotFound = "/problems/session-not-found"
	TypeVersionConflict = "/problems/version-conflict"
	TypeNotDraft        = "/problems/handover-not-draft"
	TypeUnknownStep     = "/problems/unknown-step"
	TypeWrongStepKind   = "/problems/wrong-step-kind"
	TypeGatewayFailed   = "/problems/persistence-unavailable"
	TypeInternal        = "/problems/internal-error"
)

var (
	ErrBadRequest = ProblemDetail{Type: TypeBadRequest, Title: "Bad Request", Status: http.StatusBadRequest}
	ErrNotFound   = ProblemDetail{Type: TypeNotFound, Title: "Handover Not Found", Status: http.StatusNotFound}
	ErrInternal   = ProblemDetail{Type: TypeInternal, Title: "Internal Server Error", Status: http.StatusInternalServerError}

	// ErrSessionNotFound covers expired or closed wizard sessions.
	ErrSessionNotFound = ProblemDetail{Type: TypeSessionNotFound, Title: "Wizard Session Not Found", Status: http.StatusNotFound}
	// ErrVersionConflict means the stored handover moved on since it was loaded.
	ErrVersionConflict = ProblemDetail{Type: TypeVersionConflict, Title: "Handover Version Conflict", Status: http.StatusConflict}
	ErrNotDraft        = ProblemDetail{Type: TypeNotDraft, Title: "Handover Is Not A Draft", Status: http.StatusConflict}
	ErrUnknownStep     = ProblemDetail{Type: TypeUnknownStep, Title: "Unknown Wizard Step", Status: http.StatusBadRequest}
	// ErrWrongStepKind rejects list operations on record steps and vice versa.
	ErrWrongStepKind = ProblemDetail{Type: TypeWrongStepKind, Title: "Operation Not Supported By Step", Status: http.StatusUnprocessableEntity}
	// ErrGatewayFailed reports a failed remote save or load; local edits are kept.
	ErrGatewayFailed = ProblemDetail{Type: TypeGatewayFailed, Title: "Handover Persistence Unavailable", Status: http.StatusBadGateway}
)
