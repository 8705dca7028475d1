package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/model"
)

// CourseRepository course data access
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id int64) (*model.Course, error)
	GetByCode(ctx context.Context, code string) (*model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	// IsReferenced reports whether a section or a requisite edge (either end) names the course.
	IsReferenced(ctx context.Context, id int64) (bool, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo creates a CourseRepository
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return translate(r.db.WithContext(ctx).Create(course).Error)
}

func (r *courseRepo) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("cid = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetByCode(ctx context.Context, code string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("ccode = ?", code).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).Order("cname ASC, ccode ASC").Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return translate(r.db.WithContext(ctx).Save(course).Error)
}

func (r *courseRepo) Delete(ctx context.Context, id int64) error {
	return translate(r.db.WithContext(ctx).
		Where("cid = ?", id).
		Delete(&model.Course{}).Error)
}

func (r *courseRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Course{}).
		Where("cid = ?", id).
		Count(&n).Error
	return n > 0, err
}

func (r *courseRepo) IsReferenced(ctx context.Context, id int64) (bool, error) {
	var sections, edges int64
	if err := r.db.WithContext(ctx).Model(&model.Section{}).
		Where("cid = ?", id).
		Count(&sections).Error; err != nil {
		return false, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Requisite{}).
		Where("classid = ? OR reqid = ?", id, id).
		Count(&edges).Error; err != nil {
		return false, err
	}
	return sections+edges > 0, nil
}
