package models

const AudioContentType = "audio/mpeg"

type AudioRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id,omitempty"`
}

// AudioSocketEvent is a JSON control frame sent over the audio WebSocket.
type AudioSocketEvent struct {
	Type          string `json:"type"` // "done" or "error"
	Bytes         int64  `json:"bytes,omitempty"`
	Error         string `json:"error,omitempty"`
	QuotaExceeded bool   `json:"quota_exceeded,omitempty"`
}
