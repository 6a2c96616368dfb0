package models

import "time"

// Citation is a source reference attached to an assistant message.
// RelevanceScore is a fraction in [0,1]; values outside the range come from
// misbehaving providers and must be clamped before display.
type Citation struct {
	Source         string  `json:"source"`
	FileID         string  `json:"file_id,omitempty"`
	Page           string  `json:"page,omitempty"`
	Content        string  `json:"content"`
	RelevanceScore float64 `json:"relevance_score"`
}

// ClampedScore returns the relevance score clamped to [0, 1]
func (c Citation) ClampedScore() float64 {
	switch {
	case c.RelevanceScore < 0:
		return 0
	case c.RelevanceScore > 1:
		return 1
	default:
		return c.RelevanceScore
	}
}

// Message is a single entry in a session timeline. Pending marks an
// optimistic entry that the server has not yet confirmed; it is never
// serialized.
type Message struct {
	ID         string     `json:"id"`
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	TokensUsed int        `json:"tokens_used"`
	Citations  []Citation `json:"citations,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	Pending    bool       `json:"-"`
}

// Session is a named, ordered sequence of messages
type Session struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// SessionList is the server's session listing, in server order
type SessionList struct {
	Sessions []Session `json:"sessions"`
	Total    int       `json:"total"`
}

// ChatRequest is the JSON body for the completion endpoint
type ChatRequest struct {
	Message    string   `json:"message"`
	SessionID  string   `json:"session_id,omitempty"`
	FileIDs    []string `json:"file_ids,omitempty"`
	ProviderID int      `json:"provider_id,omitempty"`
	Model      string   `json:"model,omitempty"`
}

// ChatResponse is the completion endpoint's reply. NewFiles is only present
// on the multipart path, listing files created by the upload.
type ChatResponse struct {
	MessageID  string     `json:"message_id"`
	SessionID  string     `json:"session_id"`
	Content    string     `json:"content"`
	Citations  []Citation `json:"citations"`
	TokensUsed int        `json:"tokens_used"`
	CreatedAt  time.Time  `json:"created_at"`
	NewFiles   []FileInfo `json:"new_files,omitempty"`
}

// FileInfo describes a file in the server-side library
type FileInfo struct {
	ID               string    `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FileType         string    `json:"file_type"`
	FileSize         int64     `json:"file_size"`
	MimeType         string    `json:"mime_type"`
	IsProcessed      bool      `json:"is_processed"`
	CreatedAt        time.Time `json:"created_at"`
}

// FileList is the server's file listing
type FileList struct {
	Files []FileInfo `json:"files"`
	Total int        `json:"total"`
}

// Provider is a configured completion backend with its model catalog
type Provider struct {
	ID              int      `json:"id"`
	ProviderType    string   `json:"provider_type"`
	ProviderName    string   `json:"provider_name"`
	DefaultModel    string   `json:"default_model"`
	AvailableModels []string `json:"available_models"`
	IsActive        bool     `json:"is_active"`
	IsDefault       bool     `json:"is_default"`
}

// UsagePeriod aggregates token usage over a date range
type UsagePeriod struct {
	Period           string    `json:"period"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	TotalTokens      int       `json:"total_tokens"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	RequestCount     int       `json:"request_count"`
}

// UsageSummary is the /usage endpoint response
type UsageSummary struct {
	LastMessage *int        `json:"last_message"`
	Daily       UsagePeriod `json:"daily"`
	Weekly      UsagePeriod `json:"weekly"`
	Monthly     UsagePeriod `json:"monthly"`
}

// UsagePoint is a single sample from the usage chart endpoint
type UsagePoint struct {
	Timestamp        time.Time `json:"timestamp"`
	TotalTokens      int       `json:"total_tokens"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	Model            string    `json:"model"`
}

// LoginResponse is the token issued by the auth endpoint
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
