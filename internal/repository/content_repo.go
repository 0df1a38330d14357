package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lingua-exam-api/internal/models"
)

// ContentRepository reads and writes test content. Grading only reads.
type ContentRepository interface {
	CreateTest(ctx context.Context, test *models.CourseTest) error
	GetTest(ctx context.Context, id string) (models.CourseTest, error)
	CreateModule(ctx context.Context, module *models.CourseModule) error
	ListModules(ctx context.Context, testID string) ([]models.CourseModule, error)
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository instantiates the repository.
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) CreateTest(ctx context.Context, test *models.CourseTest) error {
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *contentRepository) GetTest(ctx context.Context, id string) (models.CourseTest, error) {
	var test models.CourseTest
	if err := r.db.WithContext(ctx).First(&test, "id = ?", id).Error; err != nil {
		return models.CourseTest{}, err
	}
	return test, nil
}

func (r *contentRepository) CreateModule(ctx context.Context, module *models.CourseModule) error {
	return r.db.WithContext(ctx).Create(module).Error
}

// ListModules returns modules in authoring order so that key building is deterministic.
func (r *contentRepository) ListModules(ctx context.Context, testID string) ([]models.CourseModule, error) {
	var modules []models.CourseModule
	if err := r.db.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}
