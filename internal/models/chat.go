package models

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
	VoiceID string `json:"voice_id,omitempty"`
}

// ChatResponse is the reply generated for a chat message.
type ChatResponse struct {
	Text string `json:"text"`
}
