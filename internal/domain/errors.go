package domain

import "errors"

// Sentinel errors shared by services and adapters. Callers classify with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrGenerationFailed  = errors.New("generation failed")
	ErrEmptyConversation = errors.New("conversation has no user messages")
	ErrBusy              = errors.New("a request is already in progress")
	ErrInvalidTransition = errors.New("invalid project status transition")
)
