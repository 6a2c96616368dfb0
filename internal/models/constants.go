// Package models contains data types and constants for the DocChat API.
package models

// DefaultBaseURL is the server address used when none is configured
const DefaultBaseURL = "http://localhost:8000"

// API paths, relative to the server base URL
const (
	PathLogin        = "/api/auth/login"
	PathMe           = "/api/auth/me"
	PathChat         = "/api/llm/chat"
	PathChatWithFile = "/api/llm/chat-with-file"
	PathSessions     = "/api/llm/sessions"
	PathUsage        = "/api/llm/usage"
	PathUsageChart   = "/api/llm/usage/chart"
	PathProviders    = "/api/llm-providers/"
	PathFiles        = "/api/files/"
	PathFileUpload   = "/api/files/upload"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultHeaders returns the headers sent on every request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":     "application/json",
		"User-Agent": "docchat-cli/0.1",
	}
}
