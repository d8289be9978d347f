package models

type JobPosting struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Type           string   `json:"type"`
	Experience     string   `json:"experience"`
	Salary         string   `json:"salary"`
	RequiredSkills []string `json:"required_skills"`
	Description    string   `json:"description"`
	PostedDate     string   `json:"posted_date"`
}

// RankedJob is a posting scored against one document's skills.
type RankedJob struct {
	JobPosting
	MatchScore     float64 `json:"match_score"`
	MatchingSkills int     `json:"matching_skills"`
}
