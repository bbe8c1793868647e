package service

import (
	"fmt"
)

const (
	msgRecipesFailed = "Failed to generate recipes. The model may be unable to process the request."
	msgUnexpected    = "An unexpected error occurred."
	msgUnknownAPI    = "An unknown API error occurred."
)

// GenerationError is returned when the recipe list could not be produced.
// Error() is the user-facing message; the underlying cause is only reachable through Unwrap.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return msgRecipesFailed
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ImageGenerationError is returned when no image could be produced for a recipe.
type ImageGenerationError struct {
	RecipeName string
	Err        error
}

func (e *ImageGenerationError) Error() string {
	return fmt.Sprintf("Failed to generate an image for %s.", e.RecipeName)
}

func (e *ImageGenerationError) Unwrap() error {
	return e.Err
}

// APIError is a non-success response from the generation proxy.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return "API Error: " + e.Message
}

// userMessage returns the message shown for a failed submission.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return msgUnexpected
}
