// Package language provides lightweight keyword-based language and
// intent detection for teacher queries. It trades accuracy for zero
// external calls: a wrong guess falls back to english, which every
// downstream prompt supports.
package language

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/purva-labs/sahayak-api/internal/domain"
)

var languageKeywords = map[domain.Language][]string{
	domain.LanguageHindi:     {"कहानी", "व्याख्या", "शिक्षक", "छात्र", "कक्षा"},
	domain.LanguageMarathi:   {"कथा", "विद्यार्थी", "वर्ग", "शेतकरी"},
	domain.LanguageGujarati:  {"વાર્તા", "શિક્ષક", "વિદ્યાર્થી", "વર્ગ"},
	domain.LanguageBengali:   {"গল্প", "শিক্ষক", "ছাত্র", "ক্লাস"},
	domain.LanguageTamil:     {"கதை", "ஆசிரியர்", "மாணவர்", "வகுப்பு"},
	domain.LanguageTelugu:    {"కథ", "ఉపాధ్యాయుడు", "విద్యార్థి", "తరగతి"},
	domain.LanguageKannada:   {"ಕಥೆ", "ಶಿಕ್ಷಕ", "ವಿದ್ಯಾರ್ಥಿ", "ತರಗತಿ"},
	domain.LanguageMalayalam: {"കഥ", "അധ്യാപകൻ", "വിദ്യാർത്ഥി", "ക്ലാസ്"},
	domain.LanguagePunjabi:   {"ਕਹਾਣੀ", "ਅਧਿਆਪਕ", "ਵਿਦਿਆਰਥੀ", "ਕਲਾਸ"},
}

// detectionOrder keeps Hindi ahead of Marathi: both are Devanagari and
// share keywords, so the more common preference wins ties.
var detectionOrder = []domain.Language{
	domain.LanguageHindi, domain.LanguageMarathi, domain.LanguageGujarati,
	domain.LanguageBengali, domain.LanguageTamil, domain.LanguageTelugu,
	domain.LanguageKannada, domain.LanguageMalayalam, domain.LanguagePunjabi,
}

// Detect guesses the language of a query from script-specific keywords,
// defaulting to english.
func Detect(text string) domain.Language {
	for _, lang := range detectionOrder {
		for _, keyword := range languageKeywords[lang] {
			if strings.Contains(text, keyword) {
				return lang
			}
		}
	}
	return domain.LanguageEnglish
}

// Intent captures what a free-form teacher query is asking for.
type Intent struct {
	ContentType domain.ContentType
	Subject     string
	GradeLevels []int
}

var contentTypeKeywords = []struct {
	contentType domain.ContentType
	keywords    []string
}{
	{domain.ContentStory, []string{"story", "कहानी", "कथा", "વાર્તા"}},
	{domain.ContentExplanation, []string{"explain", "explanation", "व्याख्या"}},
	{domain.ContentExample, []string{"example", "उदाहरण", "દાખલો"}},
	{domain.ContentActivity, []string{"activity", "गतिविधि", "પ્રવૃત્તિ"}},
}

var subjectKeywords = []struct {
	subject  string
	keywords []string
}{
	{"science", []string{"science", "विज्ञान", "વિજ્ઞાન", "soil", "water", "plants"}},
	{"math", []string{"math", "mathematics", "गणित", "ગણિત", "numbers", "counting"}},
	{"social", []string{"social", "समाजिक", "સામાજિક", "farmers", "community", "history"}},
	{"language", []string{"language", "भाषा", "ભાષા", "reading", "writing", "grammar"}},
}

var gradePatterns = []*regexp.Regexp{
	regexp.MustCompile(`grade\s*(\d+)`),
	regexp.MustCompile(`class\s*(\d+)`),
	regexp.MustCompile(`कक्षा\s*(\d+)`),
	regexp.MustCompile(`વર્ગ\s*(\d+)`),
}

// DetectIntent extracts content type, subject and grade levels from a
// query. Missing signals fall back to a story for grades 1 through 5.
func DetectIntent(query string) Intent {
	lower := strings.ToLower(query)

	intent := Intent{
		ContentType: domain.ContentStory,
		Subject:     "general",
		GradeLevels: []int{1, 2, 3, 4, 5},
	}

	for _, ct := range contentTypeKeywords {
		if containsAny(lower, ct.keywords) {
			intent.ContentType = ct.contentType
			break
		}
	}

	for _, s := range subjectKeywords {
		if containsAny(lower, s.keywords) {
			intent.Subject = s.subject
			break
		}
	}

	for _, pattern := range gradePatterns {
		matches := pattern.FindAllStringSubmatch(lower, -1)
		if len(matches) == 0 {
			continue
		}
		grades := make([]int, 0, len(matches))
		for _, m := range matches {
			grade, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			grades = append(grades, grade)
		}
		if len(grades) > 0 {
			intent.GradeLevels = grades
		}
		break
	}

	return intent
}

var topicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)about\s+([^.!?]+)`),
	regexp.MustCompile(`(?i)explain\s+([^.!?]+)`),
	regexp.MustCompile(`(?i)teach\s+about\s+([^.!?]+)`),
	regexp.MustCompile(`(?i)create.*story.*about\s+([^.!?]+)`),
}

// ExtractTopic pulls the main topic out of a query. When no pattern
// matches, the trailing words of the query stand in for a topic.
func ExtractTopic(query string) string {
	for _, pattern := range topicPatterns {
		if m := pattern.FindStringSubmatch(query); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	words := strings.Fields(query)
	if len(words) > 3 {
		start := len(words) - 5
		if start < 0 {
			start = 0
		}
		return strings.Join(words[start:], " ")
	}
	return query
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
