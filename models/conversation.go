package models

// CompletionRequest is the body of a completion/proxy call
type CompletionRequest struct {
	Message string `json:"message" binding:"required"`
}

// CompletionResponse is the success body of a completion/proxy call
type CompletionResponse struct {
	Response string `json:"response"`
}

// ChatRequest represents an incoming chat message from the widget
type ChatRequest struct {
	Text       string      `json:"text"`
	Attachment *Attachment `json:"attachment"`
}

// UserInfoPatch is a partial user info update; nil fields are left untouched
type UserInfoPatch struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// NarrationRequest toggles auto-narration
type NarrationRequest struct {
	Enabled bool `json:"enabled"`
}
