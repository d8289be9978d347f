package models

import "strings"

const (
	TypeInternship       = "Internship Certificate"
	TypeSkill            = "Skill Certificate"
	TypeCourseCompletion = "Course Completion Certificate"
	TypeTranscript       = "Academic Transcript"
	TypeDegree           = "Degree Certificate"
	TypeParticipation    = "Participation Certificate"
	TypeAchievement      = "Achievement Certificate"
	TypeWorkshop         = "Workshop Certificate"
	TypeTraining         = "Training Certificate"
	TypeProject          = "Project Certificate"
	TypeResearchPaper    = "Research Paper"
	TypeThesis           = "Thesis"
	TypeDissertation     = "Dissertation"
	TypeOther            = "Other"
)

// DocumentTypes is the closed set a classification may resolve to.
var DocumentTypes = []string{
	TypeInternship,
	TypeSkill,
	TypeCourseCompletion,
	TypeTranscript,
	TypeDegree,
	TypeParticipation,
	TypeAchievement,
	TypeWorkshop,
	TypeTraining,
	TypeProject,
	TypeResearchPaper,
	TypeThesis,
	TypeDissertation,
	TypeOther,
}

// NormalizeDocumentType maps s onto DocumentTypes case-insensitively,
// returning TypeOther for anything outside the enumeration.
func NormalizeDocumentType(s string) string {
	s = strings.TrimSpace(s)
	for _, t := range DocumentTypes {
		if strings.EqualFold(t, s) {
			return t
		}
	}
	return TypeOther
}

const (
	NotSpecified = "Not specified"
	FieldGeneral = "General"
)

type Metadata struct {
	Institution     string   `json:"institution"`
	Duration        string   `json:"duration"`
	GradeOrScore    string   `json:"grade_or_score"`
	FieldOfStudy    string   `json:"field_of_study"`
	KeyAchievements []string `json:"key_achievements"`
}

type AnalysisResult struct {
	DocumentType string   `json:"document_type"`
	Skills       []string `json:"skills"`
	Metadata     Metadata `json:"metadata"`
}

// DefaultMetadata is the metadata shape used when nothing could be extracted.
func DefaultMetadata() Metadata {
	return Metadata{
		Institution:     NotSpecified,
		Duration:        NotSpecified,
		GradeOrScore:    NotSpecified,
		FieldOfStudy:    FieldGeneral,
		KeyAchievements: []string{},
	}
}

// DefaultAnalysis is the bare result returned when a backend reply cannot be parsed.
func DefaultAnalysis() AnalysisResult {
	return AnalysisResult{
		DocumentType: TypeOther,
		Skills:       []string{},
		Metadata:     DefaultMetadata(),
	}
}
