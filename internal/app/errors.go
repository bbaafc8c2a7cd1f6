package app

import "errors"

// ErrNotFound and related errors describe host-facing storage and clipboard failures.
var (
	ErrNotFound             = errors.New("not found")
	ErrNoSelection          = errors.New("no selection")
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
	ErrNotEditable          = errors.New("grid is not editable")
)
