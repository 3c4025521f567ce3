package domain

// VisualAidType is the kind of blackboard drawing to produce.
type VisualAidType string

const (
	VisualDiagram      VisualAidType = "diagram"
	VisualChart        VisualAidType = "chart"
	VisualIllustration VisualAidType = "illustration"
	VisualMap          VisualAidType = "map"
	VisualTimeline     VisualAidType = "timeline"
)

// VisualAidRequest asks for a blackboard-friendly visual aid.
type VisualAidRequest struct {
	Topic       string        `json:"topic" validate:"required"`
	Description string        `json:"description"`
	Subject     string        `json:"subject"`
	VisualType  VisualAidType `json:"visual_type"`
	GradeLevels []int         `json:"grade_levels"`
	Language    Language      `json:"language"`
	Complexity  string        `json:"complexity"`
	UserID      string        `json:"user_id"`
}

// VisualAid is one generated drawing with teaching guidance.
type VisualAid struct {
	Title                string        `json:"title"`
	Description          string        `json:"description,omitempty"`
	ImageURL             string        `json:"image_url,omitempty"`
	ImagePath            string        `json:"image_path,omitempty"`
	DrawingInstructions  []string      `json:"drawing_instructions"`
	VisualType           VisualAidType `json:"visual_type"`
	Complexity           string        `json:"complexity,omitempty"`
	EstimatedDrawingTime string        `json:"estimated_drawing_time,omitempty"`
	Labels               []string      `json:"labels,omitempty"`
	TeachingTips         []string      `json:"teaching_tips,omitempty"`
}

// VisualAidResponse is the visual-aids endpoint envelope.
type VisualAidResponse struct {
	Status         string          `json:"status"`
	AgentType      AgentType       `json:"agent_type"`
	Language       Language        `json:"language"`
	Subject        string          `json:"subject"`
	GradeLevels    []int           `json:"grade_levels,omitempty"`
	VisualAids     []VisualAid     `json:"visual_aids"`
	GenerationTime string          `json:"generation_time,omitempty"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
	ErrorMessage   string          `json:"error_message,omitempty"`
	Session        *SessionSummary `json:"session,omitempty"`
}
