package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/document-parser/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildClassificationPrompt embeds the full extracted text and the strict
// output schema the analyzer expects back.
func (pb *PromptBuilder) BuildClassificationPrompt(text string) string {
	return fmt.Sprintf(`Analyze the following academic document text and provide a structured response in JSON format.

Document Text:
%s

Please analyze and return ONLY a valid JSON object with the following structure:
{
    "document_type": "one of: %s",
    "skills": ["list of technical and soft skills mentioned"],
    "metadata": {
        "institution": "name of institution/organization",
        "duration": "duration or date range if mentioned",
        "grade_or_score": "grade/score if mentioned",
        "field_of_study": "field or domain",
        "key_achievements": ["list of achievements or highlights"]
    }
}

Important:
- Extract ALL technical skills (programming languages, tools, frameworks, technologies)
- Extract soft skills (leadership, communication, teamwork, etc.)
- Be specific and accurate
- Return ONLY the JSON object, no additional text
`, text, documentTypeChoices())
}

// BuildSearchQuery normalizes a free-text query before it is embedded.
func (pb *PromptBuilder) BuildSearchQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

func documentTypeChoices() string {
	choices := make([]string, 0, len(models.DocumentTypes))
	for i, t := range models.DocumentTypes {
		if i == len(models.DocumentTypes)-1 {
			choices = append(choices, "or "+t)
			continue
		}
		choices = append(choices, t)
	}
	return strings.Join(choices, ", ")
}
