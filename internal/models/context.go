package models

// ContextKey is the type for context keys the backend sets on requests.
type ContextKey string

const (
	// ContextKeyBaseURL is the base URL the API is reachable at, used to
	// construct resource links.
	ContextKeyBaseURL ContextKey = "munisuite-base-url"
)
