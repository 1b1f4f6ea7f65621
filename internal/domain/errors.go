package domain

import "errors"

var (
	ErrNotFound         = errors.New("resource not found")
	ErrUnknownTable     = errors.New("unknown table name")
	ErrNoDocuments      = errors.New("document source is empty")
	ErrMissingPrompt    = errors.New("prompt template is empty")
	ErrUnknownProvider  = errors.New("unknown extraction provider")
	ErrArtifactNotFound = errors.New("artifact not found")
)
