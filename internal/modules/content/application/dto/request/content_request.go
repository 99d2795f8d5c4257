package request

// RecommendRequest 内容推荐请求
type RecommendRequest struct {
	Text      string `json:"text"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Limit     int    `json:"limit,omitempty"`
}

// AddContentRequest 内容新增请求（管理接口）
type AddContentRequest struct {
	Id              string   `json:"id,omitempty"`
	Title           string   `json:"title"`
	Type            string   `json:"type"`
	Category        string   `json:"category"`
	Description     string   `json:"description"`
	URL             string   `json:"url,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	Difficulty      string   `json:"difficulty,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	EmotionTags     []string `json:"emotion_tags,omitempty"`
}
