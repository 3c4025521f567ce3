package domain

// WorksheetType is the question format of a generated worksheet.
type WorksheetType string

const (
	WorksheetMultipleChoice WorksheetType = "multiple_choice"
	WorksheetFillInBlanks   WorksheetType = "fill_in_blanks"
	WorksheetShortAnswers   WorksheetType = "short_answers"
)

// WorksheetTypes maps each type to a short description for discovery.
func WorksheetTypes() map[WorksheetType]string {
	return map[WorksheetType]string{
		WorksheetMultipleChoice: "Multiple choice questions with 4 options each",
		WorksheetFillInBlanks:   "Fill-in-the-blank questions with missing words",
		WorksheetShortAnswers:   "Short answer questions requiring brief written responses",
	}
}

// WorksheetRequest describes the worksheet to generate.
type WorksheetRequest struct {
	Subject        string        `json:"subject" validate:"required"`
	Grade          string        `json:"grade" validate:"required"`
	Topic          string        `json:"topic" validate:"required"`
	WorksheetType  WorksheetType `json:"worksheet_type" validate:"required,oneof=multiple_choice fill_in_blanks short_answers"`
	NumQuestions   int           `json:"num_questions" validate:"omitempty,gte=5,lte=30"`
	Title          string        `json:"title"`
	IncludeAnswers *bool         `json:"include_answers"`
	Language       string        `json:"language"`
	UserID         string        `json:"user_id"`
}

// WorksheetResponse points at the rendered PDF.
type WorksheetResponse struct {
	PDFURL        string        `json:"pdf_url"`
	WorksheetType WorksheetType `json:"worksheet_type"`
	Subject       string        `json:"subject"`
	Grade         string        `json:"grade"`
	Topic         string        `json:"topic"`
	Title         string        `json:"title"`
	QuestionCount int           `json:"question_count"`
	SessionID     string        `json:"session_id,omitempty"`
}
