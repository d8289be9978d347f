package services

import (
	"sort"
	"strings"
	"unicode"

	"alfredoptarigan/document-parser/internal/models"
)

// keywordRule maps a label to the lowercase keywords that select it.
// Slices of rules are evaluated in order and the first match wins.
type keywordRule struct {
	Label    string
	Keywords []string
}

var documentTypeRules = []keywordRule{
	{models.TypeInternship, []string{"internship", "intern"}},
	{models.TypeCourseCompletion, []string{"course completion", "successfully completed"}},
	{models.TypeWorkshop, []string{"workshop", "seminar"}},
	{models.TypeTraining, []string{"training", "trained"}},
	{models.TypeParticipation, []string{"participation", "participated"}},
	{models.TypeAchievement, []string{"achievement", "award"}},
	{models.TypeDegree, []string{"degree", "bachelor", "master", "diploma"}},
	{models.TypeTranscript, []string{"transcript", "grade"}},
	{models.TypeSkill, []string{"skill", "proficiency"}},
}

var fieldOfStudyRules = []keywordRule{
	{"Computer Science", []string{"computer science", "cs", "software", "programming"}},
	{"Data Science", []string{"data science", "data analytics", "big data"}},
	{"Artificial Intelligence", []string{"artificial intelligence", "ai", "machine learning", "deep learning"}},
	{"Web Development", []string{"web development", "frontend", "backend", "full stack"}},
	{"Mobile Development", []string{"mobile development", "android", "ios", "app development"}},
	{"Cybersecurity", []string{"cybersecurity", "security", "ethical hacking"}},
	{"Cloud Computing", []string{"cloud computing", "aws", "azure", "gcp"}},
	{"Business", []string{"business", "management", "mba"}},
	{"Engineering", []string{"engineering", "mechanical", "electrical", "civil"}},
}

var technicalSkills = []string{
	"python", "java", "javascript", "c++", "c#", "ruby", "php", "swift", "kotlin",
	"react", "angular", "vue", "node.js", "django", "flask", "spring", "express",
	"sql", "mysql", "postgresql", "mongodb", "redis", "elasticsearch",
	"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "git",
	"machine learning", "deep learning", "ai", "data science", "nlp",
	"html", "css", "typescript", "rest api", "graphql",
	"agile", "scrum", "devops", "ci/cd", "microservices",
	"tensorflow", "pytorch", "scikit-learn", "pandas", "numpy",
	"android", "ios", "flutter", "react native",
	"blockchain", "web3", "solidity", "ethereum",
}

var softSkills = []string{
	"leadership", "communication", "teamwork", "problem solving",
	"critical thinking", "time management", "project management",
	"presentation", "collaboration", "analytical", "creative",
}

var institutionKeywords = []string{"university", "college", "institute", "academy", "school"}

// institutionScanLines bounds how far into the text an institution is searched for.
const institutionScanLines = 5

// RuleEngine is the deterministic keyword classifier used when the remote
// backend is unavailable.
type RuleEngine struct{}

func NewRuleEngine() *RuleEngine {
	return &RuleEngine{}
}

func (r *RuleEngine) Analyze(text string) models.AnalysisResult {
	metadata := models.DefaultMetadata()
	metadata.Institution = r.ExtractInstitution(text)
	metadata.FieldOfStudy = r.ExtractFieldOfStudy(text)

	return models.AnalysisResult{
		DocumentType: r.ClassifyDocumentType(text),
		Skills:       r.ExtractSkills(text),
		Metadata:     metadata,
	}
}

func (r *RuleEngine) ClassifyDocumentType(text string) string {
	if label, ok := firstMatch(documentTypeRules, strings.ToLower(text)); ok {
		return label
	}
	return models.TypeOther
}

// ExtractSkills returns the title-cased catalog entries contained in text,
// deduplicated and sorted.
func (r *RuleEngine) ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]struct{})
	skills := []string{}

	for _, catalog := range [][]string{technicalSkills, softSkills} {
		for _, skill := range catalog {
			if !strings.Contains(lower, skill) {
				continue
			}
			titled := titleCase(skill)
			if _, dup := seen[titled]; dup {
				continue
			}
			seen[titled] = struct{}{}
			skills = append(skills, titled)
		}
	}

	sort.Strings(skills)
	return skills
}

func (r *RuleEngine) ExtractInstitution(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > institutionScanLines {
		lines = lines[:institutionScanLines]
	}

	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, keyword := range institutionKeywords {
			if strings.Contains(lower, keyword) {
				return strings.TrimSpace(line)
			}
		}
	}

	return models.NotSpecified
}

func (r *RuleEngine) ExtractFieldOfStudy(text string) string {
	if label, ok := firstMatch(fieldOfStudyRules, strings.ToLower(text)); ok {
		return label
	}
	return models.FieldGeneral
}

func firstMatch(rules []keywordRule, lower string) (string, bool) {
	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return rule.Label, true
			}
		}
	}
	return "", false
}

// titleCase upper-cases every letter that follows a non-letter and
// lower-cases the rest, so "node.js" becomes "Node.Js" and "ci/cd" "Ci/Cd".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}

	return b.String()
}
