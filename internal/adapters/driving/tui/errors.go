package tui

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("tui: retrieval service is required")

// ErrNoAnswerService is returned when ask mode runs without an answer service.
var ErrNoAnswerService = errors.New("tui: no answer service configured")
