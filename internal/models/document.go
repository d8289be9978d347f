package models

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type DocumentKind string

const (
	KindImage DocumentKind = "image"
	KindPDF   DocumentKind = "pdf"
)

// KindFromFilename maps an upload's extension to the kind the extractor
// understands. Only .pdf, .jpg, .jpeg and .png are accepted.
func KindFromFilename(filename string) (DocumentKind, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return KindPDF, true
	case ".jpg", ".jpeg", ".png":
		return KindImage, true
	default:
		return "", false
	}
}

// RawDocument is one uploaded file, discarded once text has been extracted.
type RawDocument struct {
	Data     []byte
	Kind     DocumentKind
	Filename string
}

// DocumentRecord is the persisted result of a successfully analyzed upload.
type DocumentRecord struct {
	ID                 uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Username           string      `gorm:"type:text;not null;index:idx_username" json:"username"`
	OriginalFilename   string      `gorm:"type:text;not null" json:"original_filename"`
	FilePath           string      `gorm:"type:text;not null" json:"file_path"`
	OCRText            string      `gorm:"type:text" json:"ocr_text"`
	DocumentType       string      `gorm:"type:text" json:"document_type"`
	Skills             []string    `gorm:"type:jsonb;serializer:json" json:"skills"`
	Metadata           Metadata    `gorm:"type:jsonb;serializer:json" json:"metadata"`
	JobRecommendations []RankedJob `gorm:"type:jsonb;serializer:json" json:"job_recommendations"`
	Timestamp          string      `gorm:"type:text;not null;index:idx_timestamp" json:"timestamp"`
	Indexed            bool        `gorm:"not null;default:false" json:"indexed"`
	CreatedAt          time.Time   `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (DocumentRecord) TableName() string {
	return "documents"
}

// DocumentSummary is the reduced row returned by listings.
type DocumentSummary struct {
	ID               uuid.UUID `json:"id"`
	Username         string    `json:"username"`
	OriginalFilename string    `json:"original_filename"`
	DocumentType     string    `json:"document_type"`
	Timestamp        string    `json:"timestamp"`
	CreatedAt        time.Time `json:"created_at"`
}

type Statistics struct {
	TotalDocuments   int64            `json:"total_documents"`
	ByDocumentType   map[string]int64 `json:"by_document_type"`
	ByUser           map[string]int64 `json:"by_user"`
	RecentActivity24 int64            `json:"recent_24h"`
}
