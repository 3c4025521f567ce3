package domain

// AgentType identifies which agent produced a message or response.
type AgentType string

const (
	AgentMain            AgentType = "main"
	AgentHyperLocal      AgentType = "hyper_local_content"
	AgentWorksheet       AgentType = "worksheet_generator"
	AgentVisualAids      AgentType = "visual_aids"
	AgentContentAnalysis AgentType = "content_analysis"

	// AgentUser tags caller-authored messages in session history.
	AgentUser AgentType = "user"
)

// Language is one of the supported content languages.
type Language string

const (
	LanguageEnglish   Language = "english"
	LanguageHindi     Language = "hindi"
	LanguageMarathi   Language = "marathi"
	LanguageGujarati  Language = "gujarati"
	LanguageBengali   Language = "bengali"
	LanguageTamil     Language = "tamil"
	LanguageTelugu    Language = "telugu"
	LanguageKannada   Language = "kannada"
	LanguageMalayalam Language = "malayalam"
	LanguagePunjabi   Language = "punjabi"
)

// SupportedLanguages lists every language the service can generate in.
func SupportedLanguages() []Language {
	return []Language{
		LanguageEnglish, LanguageHindi, LanguageMarathi, LanguageGujarati,
		LanguageBengali, LanguageTamil, LanguageTelugu, LanguageKannada,
		LanguageMalayalam, LanguagePunjabi,
	}
}

// ContentType is the kind of hyper-local content to generate.
type ContentType string

const (
	ContentStory       ContentType = "story"
	ContentExplanation ContentType = "explanation"
	ContentExample     ContentType = "example"
	ContentActivity    ContentType = "activity"
)

// AgentRequest is the main agent query payload.
type AgentRequest struct {
	Query    string         `json:"query" validate:"required"`
	Language Language       `json:"language"`
	Context  map[string]any `json:"context"`
	UserID   string         `json:"user_id"`
}

// HyperLocalContentRequest asks for culturally grounded educational content.
type HyperLocalContentRequest struct {
	Topic           string      `json:"topic" validate:"required"`
	Language        Language    `json:"language" validate:"required"`
	GradeLevels     []int       `json:"grade_levels"`
	CulturalContext string      `json:"cultural_context"`
	ContentType     ContentType `json:"content_type"`
	Subject         string      `json:"subject"`
	Requirements    string      `json:"additional_requirements"`
}

// AgentResponse is the common response envelope for agent endpoints.
type AgentResponse struct {
	Status       string          `json:"status"`
	AgentType    AgentType       `json:"agent_type"`
	Response     string          `json:"response"`
	Language     Language        `json:"language"`
	Metadata     map[string]any  `json:"metadata,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Session      *SessionSummary `json:"session,omitempty"`
}
