package llm

import (
	"fmt"
	"strings"

	"github.com/purva-labs/sahayak-api/internal/domain"
)

// languageContexts anchors content generation in the region where each
// language is spoken.
var languageContexts = map[domain.Language]string{
	domain.LanguageHindi:     "Hindi-speaking regions of North India",
	domain.LanguageMarathi:   "Maharashtra state with rural farming communities",
	domain.LanguageGujarati:  "Gujarat state with diverse agricultural and business communities",
	domain.LanguageBengali:   "West Bengal and Bangladesh regions with rich cultural heritage",
	domain.LanguageTamil:     "Tamil Nadu with strong literary and cultural traditions",
	domain.LanguageTelugu:    "Andhra Pradesh and Telangana regions",
	domain.LanguageKannada:   "Karnataka state with diverse geographical features",
	domain.LanguageMalayalam: "Kerala state with high literacy and unique geography",
	domain.LanguagePunjabi:   "Punjab region with agricultural prominence",
	domain.LanguageEnglish:   "Pan-Indian context with local examples",
}

// EducationalPrompt wraps a request in the Sahayak teaching-assistant
// framing before it is sent to the model.
func EducationalPrompt(request string, language domain.Language) string {
	if language == "" {
		language = domain.LanguageEnglish
	}
	return fmt.Sprintf(`You are an AI teaching assistant called "Sahayak" designed to help teachers in multi-grade, low-resource classrooms in India.

Language: %s
Cultural Context: Indian educational system, rural and semi-urban contexts

Guidelines:
- Keep content simple, engaging, and age-appropriate
- Use local cultural references and examples
- Make content suitable for multi-grade teaching
- Focus on practical, hands-on learning approaches
- Use simple vocabulary that teachers can easily explain

Request: %s

Please provide helpful educational content following these guidelines:`, language, request)
}

// GenericAssistPrompt is used when a query does not map to a
// specialized agent.
func GenericAssistPrompt(query string) string {
	return fmt.Sprintf(`As a teaching assistant for Indian teachers, please help with this request: %s

Please provide a helpful response that:
- Is appropriate for multi-grade classrooms
- Uses simple, clear language
- Includes practical teaching suggestions
- Considers resource constraints in Indian schools`, query)
}

// ContentPrompt builds the generation prompt for hyper-local content.
func ContentPrompt(req domain.HyperLocalContentRequest) string {
	switch req.ContentType {
	case domain.ContentExplanation:
		return explanationPrompt(req)
	case domain.ContentExample:
		return examplePrompt(req)
	case domain.ContentActivity:
		return activityPrompt(req)
	default:
		return storyPrompt(req)
	}
}

func gradeList(grades []int) string {
	if len(grades) == 0 {
		return "1, 2, 3, 4, 5"
	}
	parts := make([]string, len(grades))
	for i, g := range grades {
		parts[i] = fmt.Sprintf("%d", g)
	}
	return strings.Join(parts, ", ")
}

func gradeRange(grades []int) string {
	if len(grades) == 0 {
		return "1-5"
	}
	lo, hi := grades[0], grades[0]
	for _, g := range grades[1:] {
		if g < lo {
			lo = g
		}
		if g > hi {
			hi = g
		}
	}
	return fmt.Sprintf("%d-%d", lo, hi)
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

func storyPrompt(req domain.HyperLocalContentRequest) string {
	cultural, ok := languageContexts[req.Language]
	if !ok {
		cultural = "Indian rural context"
	}
	subject := req.Subject
	if subject == "" {
		subject = "general education"
	}
	return fmt.Sprintf(`Create an engaging educational story in %s about %s.

Context and Requirements:
- Setting: %s
- Target grades: %s
- Cultural context: %s
- Subject: %s

Story Guidelines:
1. Use simple, age-appropriate language suitable for grades %s
2. Include local characters with Indian names
3. Set the story in a familiar Indian context (village, small town, or familiar urban setting)
4. Incorporate the educational concept naturally into the narrative
5. Use cultural references that Indian students can relate to
6. Make it engaging and memorable for children
7. Include moral or practical lessons
8. Keep the story length appropriate for classroom storytelling (3-5 minutes)

Additional requirements: %s

Please create a complete story that teachers can easily read aloud and use to explain %s to their students.`,
		req.Language, req.Topic, cultural, gradeList(req.GradeLevels), req.CulturalContext,
		subject, gradeRange(req.GradeLevels), orNone(req.Requirements), req.Topic)
}

func explanationPrompt(req domain.HyperLocalContentRequest) string {
	cultural, ok := languageContexts[req.Language]
	if !ok {
		cultural = "Indian context"
	}
	return fmt.Sprintf(`Provide a clear, simple explanation of %s in %s.

Context:
- Audience: Students in grades %s
- Cultural setting: %s
- Teaching context: %s

Explanation Requirements:
1. Use simple vocabulary appropriate for the grade levels
2. Include examples from everyday Indian life
3. Use analogies that Indian children can understand
4. Break down complex concepts into smaller parts
5. Provide practical examples or demonstrations teachers can use
6. Include local references and familiar objects/situations
7. Make it interactive with questions teachers can ask students

Additional context: %s

Please provide a comprehensive yet simple explanation that teachers can use in multi-grade classrooms.`,
		req.Topic, req.Language, gradeList(req.GradeLevels), cultural, req.CulturalContext, orNone(req.Requirements))
}

func examplePrompt(req domain.HyperLocalContentRequest) string {
	return fmt.Sprintf(`Provide practical, relatable examples to explain %s in %s.

Requirements:
- Target grades: %s
- Cultural context: %s
- Use examples from Indian daily life, agriculture, festivals, or local customs
- Make examples visual and hands-on where possible
- Include multiple examples for different grade levels
- Ensure examples are relevant to rural and semi-urban Indian contexts

Additional requirements: %s

Please provide 3-5 practical examples that teachers can use to illustrate %s.`,
		req.Topic, req.Language, gradeList(req.GradeLevels), req.CulturalContext, orNone(req.Requirements), req.Topic)
}

func activityPrompt(req domain.HyperLocalContentRequest) string {
	return fmt.Sprintf(`Design engaging classroom activities to teach %s in %s.

Activity Requirements:
- Suitable for grades %s
- Can be conducted in resource-limited classrooms
- Use materials commonly available in Indian schools
- Suitable for multi-grade teaching
- Culturally relevant to %s
- Interactive and hands-on where possible

Please provide:
1. 2-3 different activities for different learning styles
2. Clear step-by-step instructions for teachers
3. List of required materials (keep it simple and accessible)
4. Learning outcomes for each activity
5. Assessment suggestions

Additional requirements: %s

Design activities that will help students understand %s through practical engagement.`,
		req.Topic, req.Language, gradeList(req.GradeLevels), req.CulturalContext, orNone(req.Requirements), req.Topic)
}

var worksheetTypeInstructions = map[domain.WorksheetType]struct {
	instruction string
	format      string
}{
	domain.WorksheetMultipleChoice: {
		instruction: "Create a multiple choice worksheet with %d questions and 4 options each.",
		format:      "The questions should be in standard multiple choice format with options A, B, C, and D.",
	},
	domain.WorksheetFillInBlanks: {
		instruction: "Create a fill-in-the-blanks worksheet with %d questions.",
		format:      "Each question should have a blank indicated by underscores (____) where a word or phrase should be filled in.",
	},
	domain.WorksheetShortAnswers: {
		instruction: "Create a short answer worksheet with %d questions.",
		format:      "Each question should require a brief response of 1-3 sentences.",
	},
}

// WorksheetPrompt builds the generation prompt for a worksheet. The
// model is asked to mark answers with an "Answer Key" heading so the
// renderer can split them off.
func WorksheetPrompt(req domain.WorksheetRequest) string {
	typeInfo := worksheetTypeInstructions[req.WorksheetType]
	readable := strings.ReplaceAll(string(req.WorksheetType), "_", " ")
	language := req.Language
	if language == "" {
		language = string(domain.LanguageEnglish)
	}
	return fmt.Sprintf(`You are an expert educational worksheet creator for grade %s students.
Create a complete %s worksheet about %s for %s.

%s
%s

The worksheet must include exactly %d questions related to %s in %s appropriate for grade %s students.
Make sure all questions are factually correct and aligned with educational standards.

For each question, also provide the correct answer separately in an answer key section titled "Answer Key".

Language: %s`,
		req.Grade, readable, req.Topic, req.Subject,
		fmt.Sprintf(typeInfo.instruction, req.NumQuestions), typeInfo.format,
		req.NumQuestions, req.Topic, req.Subject, req.Grade, language)
}

var analysisTargetPhrases = map[domain.AnalysisTarget]string{
	domain.AnalysisDetailedContent:   "Create detailed, comprehensive educational content about",
	domain.AnalysisSummary:           "Provide a concise summary of the key information in",
	domain.AnalysisKeyPoints:         "Extract and list the key points from",
	domain.AnalysisStudyGuide:        "Create a structured study guide based on",
	domain.AnalysisPracticeQuestions: "Generate practice questions with answers based on",
}

var analysisFormatPhrases = map[domain.AnalysisFormat]string{
	domain.FormatText:         "in flowing paragraphs of text",
	domain.FormatBulletPoints: "in a bulleted list format with clear categories",
	domain.FormatQA:           "in a question-and-answer format",
	domain.FormatMindMap:      "in a textual mind map format with main topics and branches",
	domain.FormatFlashcards:   "as flashcard pairs with questions/prompts and answers",
}

var analysisDepthPhrases = map[domain.AnalysisDepth]string{
	domain.DepthSurface:  "focusing only on the most apparent information",
	domain.DepthBasic:    "with basic analysis of the main concepts",
	domain.DepthModerate: "with moderate depth analysis and connections between concepts",
	domain.DepthDetailed: "with detailed analysis, examples, and contextual information",
	domain.DepthDeep:     "with deep analysis, historical context, and theoretical foundations",
}

var analysisLengthPhrases = map[domain.AnalysisLength]string{
	domain.LengthConcise:       "Keep it very concise (100-200 words).",
	domain.LengthBrief:         "Keep it brief (200-400 words).",
	domain.LengthModerate:      "Provide moderate detail (400-800 words).",
	domain.LengthDetailed:      "Make it detailed (800-1500 words).",
	domain.LengthComprehensive: "Make it comprehensive (1500-2500 words).",
}

// AnalysisPrompt builds the prompt for deriving study material from an
// uploaded image or PDF. The media itself travels alongside as an
// inline part; sourceType names it for the model.
func AnalysisPrompt(req domain.AnalysisRequest, sourceType string) string {
	language := req.Language
	if language == "" {
		language = string(domain.LanguageEnglish)
	}
	return fmt.Sprintf(`You are an expert educational content creator. Your task is to analyze the attached %s and produce educational material from it.

%s the attached %s, %s, %s.
%s

Write the result in %s.
Use clear and concise language appropriate for educational purposes.`,
		sourceType,
		analysisTargetPhrases[req.Target], sourceType,
		analysisFormatPhrases[req.Format], analysisDepthPhrases[req.Depth],
		analysisLengthPhrases[req.Length], language)
}

// VisualAidPrompt asks for blackboard drawing instructions in a fixed
// section layout the service can parse.
func VisualAidPrompt(req domain.VisualAidRequest) string {
	complexityGuides := map[string]string{
		"simple":   "Use minimal elements, focus on core concepts only, 3-5 components max",
		"medium":   "Include main concepts with some supporting details, 5-8 components",
		"detailed": "Include comprehensive details while keeping it drawable, 8-12 components max",
	}
	complexity := strings.ToLower(req.Complexity)
	guide, ok := complexityGuides[complexity]
	if !ok {
		complexity = "medium"
		guide = complexityGuides["medium"]
	}

	gradeText := gradeList(req.GradeLevels)
	if len(req.GradeLevels) == 0 {
		gradeText = "middle school"
	}
	description := req.Description
	if description == "" {
		description = req.Topic
	}

	return fmt.Sprintf(`Create step-by-step instructions for drawing a simple visual based on this description:
"%s"

Subject: %s
Topic: %s
Visual type: %s
Grade level: %s
Complexity: %s - %s
Intended for: Drawing on a blackboard in a classroom setting

Format your response in these sections:
1. DRAWING TITLE: Short, descriptive title
2. MATERIALS NEEDED: Basic chalk/markers and any other materials
3. STEP-BY-STEP DRAWING INSTRUCTIONS: Numbered steps (6-10 steps), each simple enough for a teacher to follow
4. KEY LABELS: 3-8 important elements to label in the drawing
5. TEACHING TIPS: 2-4 suggestions for using this visual effectively in teaching

Important Guidelines:
- Focus on creating a visual aid that DIRECTLY represents the description
- Create instructions for a SIMPLE, CLEAR drawing that can be quickly reproduced on a blackboard
- Focus on clarity over detail - use basic shapes and lines
- Ensure the final drawing will fit on a standard blackboard
- Use only features that can be created with chalk/basic markers
- Avoid complex shading or tiny details
- Ensure the visual aid effectively communicates the key concept`,
		description, req.Subject, req.Topic, req.VisualType, gradeText, complexity, guide)
}

// ImagePrompt asks the image model for a clean educational rendering
// of a visual aid.
func ImagePrompt(req domain.VisualAidRequest, topic string) string {
	gradeText := gradeList(req.GradeLevels)
	if len(req.GradeLevels) == 0 {
		gradeText = "middle school"
	}
	return fmt.Sprintf(`Create a unique, educational %s about "%s" for %s teaching.

SPECIFIC REQUEST: %s

PEDAGOGICAL CONTEXT:
- Subject area: %s
- Student age group: %s
- Learning objectives: To help students visualize and understand %s through clear visual representation

VISUAL SPECIFICATIONS:
- Clean, professional educational design with clear purpose
- Thoughtful layout with proper spacing and visual hierarchy
- Clear labels integrated with visual elements
- White background for maximum clarity and focus

IMPORTANT: Create a unique, custom visual that effectively communicates this specific educational concept.`,
		req.VisualType, topic, req.Subject, req.Description, req.Subject, gradeText, topic)
}
