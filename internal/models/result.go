package models

type OutcomeStatus string

const (
	StatusSuccess OutcomeStatus = "success"
	StatusError   OutcomeStatus = "error"
)

// AnalysisPayload is the success body handed to callers and persisted.
type AnalysisPayload struct {
	DocumentType       string      `json:"document_type"`
	Skills             []string    `json:"skills"`
	Metadata           Metadata    `json:"metadata"`
	JobRecommendations []RankedJob `json:"job_recommendations"`
	OCRPreview         string      `json:"ocr_preview"`
}

// AnalysisOutcome is the terminal state of one document in the pipeline.
type AnalysisOutcome struct {
	Status OutcomeStatus    `json:"status"`
	Error  string           `json:"error,omitempty"`
	Data   *AnalysisPayload `json:"data,omitempty"`

	// Text is the full extracted text, kept for persistence only.
	Text string `json:"-"`
}

func (o AnalysisOutcome) Succeeded() bool {
	return o.Status == StatusSuccess
}

type UploadResult struct {
	Filename   string           `json:"filename"`
	Status     OutcomeStatus    `json:"status"`
	DocumentID string           `json:"document_id,omitempty"`
	Data       *AnalysisPayload `json:"data,omitempty"`
	Error      string           `json:"error,omitempty"`
}

type UploadResponse struct {
	Results []UploadResult `json:"results"`
}

type SearchHit struct {
	DocumentID   string  `json:"document_id"`
	Username     string  `json:"username"`
	DocumentType string  `json:"document_type"`
	Score        float32 `json:"score"`
	Snippet      string  `json:"snippet"`
}
