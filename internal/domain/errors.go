package domain

import "errors"

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrInvalidFormat indicates a content_format outside {html, markdown}
	ErrInvalidFormat = errors.New("invalid content format")

	// ErrInvalidData indicates a malformed import document
	ErrInvalidData = errors.New("invalid import data")

	// ErrInvalidMove indicates a page move that would make the page its own
	// ancestor, or a move to a nonexistent parent
	ErrInvalidMove = errors.New("invalid move")

	// ErrDeleteFailed indicates the content store refused a delete
	ErrDeleteFailed = errors.New("delete failed")
)
