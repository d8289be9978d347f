package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/document-parser/internal/models"
)

var ErrDocumentNotFound = errors.New("document not found")

type DocumentRepository interface {
	Create(doc *models.DocumentRecord) error
	FindAll(username string) ([]models.DocumentSummary, error)
	FindByID(id uuid.UUID) (*models.DocumentRecord, error)
	Delete(id uuid.UUID) error
	Count() (int64, error)
	Statistics(since time.Time) (*models.Statistics, error)
	Ping() error
	FindUnindexed(limit int) ([]models.DocumentRecord, error)
	MarkIndexed(id uuid.UUID) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(doc *models.DocumentRecord) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// FindAll lists documents newest first, filtered by username when it is set.
func (r *documentRepository) FindAll(username string) ([]models.DocumentSummary, error) {
	query := r.db.Model(&models.DocumentRecord{}).
		Select("id", "username", "original_filename", "document_type", "timestamp", "created_at").
		Order("created_at DESC")

	if username != "" {
		query = query.Where("username = ?", username)
	}

	docs := []models.DocumentSummary{}
	if err := query.Scan(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (r *documentRepository) FindByID(id uuid.UUID) (*models.DocumentRecord, error) {
	var doc models.DocumentRecord
	if err := r.db.Where("id = ?", id).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return &doc, nil
}

func (r *documentRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.DocumentRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete document: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (r *documentRepository) Count() (int64, error) {
	var total int64
	if err := r.db.Model(&models.DocumentRecord{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return total, nil
}

type groupCount struct {
	Label string
	Count int64
}

// Statistics aggregates totals by type and user, plus documents created after since.
func (r *documentRepository) Statistics(since time.Time) (*models.Statistics, error) {
	stats := &models.Statistics{
		ByDocumentType: map[string]int64{},
		ByUser:         map[string]int64{},
	}

	total, err := r.Count()
	if err != nil {
		return nil, err
	}
	stats.TotalDocuments = total

	byType, err := r.countBy("document_type")
	if err != nil {
		return nil, err
	}
	for _, row := range byType {
		stats.ByDocumentType[row.Label] = row.Count
	}

	byUser, err := r.countBy("username")
	if err != nil {
		return nil, err
	}
	for _, row := range byUser {
		stats.ByUser[row.Label] = row.Count
	}

	if err := r.db.Model(&models.DocumentRecord{}).
		Where("created_at > ?", since).
		Count(&stats.RecentActivity24).Error; err != nil {
		return nil, fmt.Errorf("failed to count recent documents: %w", err)
	}

	return stats, nil
}

// column is one of a fixed set of names, never user input.
func (r *documentRepository) countBy(column string) ([]groupCount, error) {
	var rows []groupCount
	err := r.db.Model(&models.DocumentRecord{}).
		Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group documents by %s: %w", column, err)
	}
	return rows, nil
}

func (r *documentRepository) Ping() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}

func (r *documentRepository) FindUnindexed(limit int) ([]models.DocumentRecord, error) {
	var docs []models.DocumentRecord
	err := r.db.Where("indexed = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find unindexed documents: %w", err)
	}
	return docs, nil
}

func (r *documentRepository) MarkIndexed(id uuid.UUID) error {
	result := r.db.Model(&models.DocumentRecord{}).
		Where("id = ?", id).
		Update("indexed", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark document indexed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}
