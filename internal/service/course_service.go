package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/dto"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/model"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/repository"
)

// ── course errors ──

var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrCourseCodeTaken   = errors.New("course number already exists")
	ErrCourseReferenced  = errors.New("course is referenced by a section or requisite")
	ErrInvalidTermPolicy = errors.New("invalid term policy")
	ErrInvalidYearPolicy = errors.New("invalid year policy")
)

// CourseService course business interface
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.CourseResponse, error)
	List(ctx context.Context) ([]dto.CourseResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id int64) error
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService creates a CourseService
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	course := &model.Course{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Term:        model.TermPolicy(req.Term),
		Years:       model.YearPolicy(req.Years),
		Credits:     req.Credits,
		Syllabus:    req.Syllabus,
	}
	if err := validateCoursePolicies(course); err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, course.Code, 0); err != nil {
		return nil, err
	}

	if err := s.repo.Course.Create(ctx, course); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, ErrCourseCodeTaken
		}
		s.logger.Error("create course failed", zap.Error(err))
		return nil, err
	}

	return toCourseResponse(course), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *courseService) GetByID(ctx context.Context, id int64) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCourseResponse(course), nil
}

// ────────────────────── List ──────────────────────

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("list courses failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *toCourseResponse(&courses[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *courseService) Update(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Code != nil {
		course.Code = *req.Code
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Term != nil {
		course.Term = model.TermPolicy(*req.Term)
	}
	if req.Years != nil {
		course.Years = model.YearPolicy(*req.Years)
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if req.Syllabus != nil {
		course.Syllabus = *req.Syllabus
	}

	if err := validateCoursePolicies(course); err != nil {
		return nil, err
	}
	if req.Code != nil {
		if err := s.ensureCodeFree(ctx, course.Code, course.CourseID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Course.Update(ctx, course); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, ErrCourseCodeTaken
		}
		s.logger.Error("update course failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	return toCourseResponse(course), nil
}

// ────────────────────── Delete ──────────────────────

func (s *courseService) Delete(ctx context.Context, id int64) error {
	if _, err := s.getCourse(ctx, id); err != nil {
		return err
	}

	referenced, err := s.repo.Course.IsReferenced(ctx, id)
	if err != nil {
		s.logger.Error("check course references failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if referenced {
		return ErrCourseReferenced
	}

	if err := s.repo.Course.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return ErrCourseReferenced
		}
		s.logger.Error("delete course failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

func (s *courseService) getCourse(ctx context.Context, id int64) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("get course failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (s *courseService) ensureCodeFree(ctx context.Context, code string, selfID int64) error {
	other, err := s.repo.Course.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("lookup course number failed", zap.String("ccode", code), zap.Error(err))
		return err
	}
	if other.CourseID != selfID {
		return ErrCourseCodeTaken
	}
	return nil
}

func validateCoursePolicies(c *model.Course) error {
	if !c.Term.Valid() {
		return ErrInvalidTermPolicy
	}
	if !c.Years.Valid() {
		return ErrInvalidYearPolicy
	}
	return nil
}

func toCourseResponse(c *model.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:          c.CourseID,
		Name:        c.Name,
		Code:        c.Code,
		Description: c.Description,
		Term:        string(c.Term),
		Years:       string(c.Years),
		Credits:     c.Credits,
		Syllabus:    c.Syllabus,
		CreatedAt:   c.CreatedAt.Format(timestampLayout),
		UpdatedAt:   c.UpdatedAt.Format(timestampLayout),
	}
}
