package request

// TextInput 情绪分析请求
type TextInput struct {
	Text      string `json:"text"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatRequest 智能对话请求
type ChatRequest struct {
	Text      string `json:"text"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}
