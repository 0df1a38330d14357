package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lingua-exam-api/internal/models"
)

const defaultResultListLimit = 50

// ResultRepository is the append-only result store. Results are never updated.
type ResultRepository interface {
	Create(ctx context.Context, result *models.TestResult) error
	GetByID(ctx context.Context, id string) (models.TestResult, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.TestResult, error)
}

type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository instantiates the repository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Create(ctx context.Context, result *models.TestResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *resultRepository) GetByID(ctx context.Context, id string) (models.TestResult, error) {
	var result models.TestResult
	if err := r.db.WithContext(ctx).First(&result, "id = ?", id).Error; err != nil {
		return models.TestResult{}, err
	}
	return result, nil
}

func (r *resultRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.TestResult, error) {
	if limit <= 0 {
		limit = defaultResultListLimit
	}

	var results []models.TestResult
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
