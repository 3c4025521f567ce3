package domain

// AnalysisTarget is the kind of content to derive from uploaded material.
type AnalysisTarget string

const (
	AnalysisDetailedContent   AnalysisTarget = "detailed_content"
	AnalysisSummary           AnalysisTarget = "summary"
	AnalysisKeyPoints         AnalysisTarget = "key_points"
	AnalysisStudyGuide        AnalysisTarget = "study_guide"
	AnalysisPracticeQuestions AnalysisTarget = "practice_questions"
)

// AnalysisFormat is the shape of the derived content.
type AnalysisFormat string

const (
	FormatText         AnalysisFormat = "text"
	FormatBulletPoints AnalysisFormat = "bullet_points"
	FormatQA           AnalysisFormat = "qa_format"
	FormatMindMap      AnalysisFormat = "mind_map"
	FormatFlashcards   AnalysisFormat = "flashcards"
)

// AnalysisDepth controls how far beyond the source material to go.
type AnalysisDepth string

const (
	DepthSurface  AnalysisDepth = "surface"
	DepthBasic    AnalysisDepth = "basic"
	DepthModerate AnalysisDepth = "moderate"
	DepthDetailed AnalysisDepth = "detailed"
	DepthDeep     AnalysisDepth = "deep"
)

// AnalysisLength controls output length.
type AnalysisLength string

const (
	LengthConcise       AnalysisLength = "concise"
	LengthBrief         AnalysisLength = "brief"
	LengthModerate      AnalysisLength = "moderate"
	LengthDetailed      AnalysisLength = "detailed"
	LengthComprehensive AnalysisLength = "comprehensive"
)

// AnalysisRequest configures content generation from an image or PDF.
type AnalysisRequest struct {
	Target   AnalysisTarget `json:"content_type" validate:"required,oneof=detailed_content summary key_points study_guide practice_questions"`
	Format   AnalysisFormat `json:"output_format" validate:"required,oneof=text bullet_points qa_format mind_map flashcards"`
	Depth    AnalysisDepth  `json:"research_depth" validate:"required,oneof=surface basic moderate detailed deep"`
	Length   AnalysisLength `json:"content_length" validate:"required,oneof=concise brief moderate detailed comprehensive"`
	Language string         `json:"local_language"`
	UserID   string         `json:"user_id"`
}

// AnalysisResponse carries the derived content.
type AnalysisResponse struct {
	Content    string         `json:"content"`
	Language   string         `json:"language"`
	Target     AnalysisTarget `json:"content_type"`
	Format     AnalysisFormat `json:"output_format"`
	SourceType string         `json:"source_type"`
	SessionID  string         `json:"session_id,omitempty"`
	UserID     string         `json:"user_id,omitempty"`
}
