package repository

import (
	"context"

	"github.com/coursebay/lms-backend/internal/domain/entity"
)

// CourseRepository defines the interface for course-related database operations.
type CourseRepository interface {
	Create(ctx context.Context, c *entity.Course) error
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	// List returns all courses without their lecture sequences.
	List(ctx context.Context) ([]entity.Course, error)
	Update(ctx context.Context, c *entity.Course) error
	Delete(ctx context.Context, id string) error
}
