package common

import "errors"

var (
	// generation errors
	ErrGenerationFailed = errors.New("generation failed")
	ErrGenerationParse  = errors.New("generation response could not be parsed")

	// persistence errors
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")

	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)
