package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/model"
)

// MeetingRepository meeting data access
type MeetingRepository interface {
	Create(ctx context.Context, meeting *model.Meeting) error
	GetByID(ctx context.Context, id int64) (*model.Meeting, error)
	List(ctx context.Context) ([]model.Meeting, error)
	Update(ctx context.Context, meeting *model.Meeting) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	// CourseCodeTaken reports whether another meeting (id != excludeID) uses code.
	CourseCodeTaken(ctx context.Context, code string, excludeID int64) (bool, error)
	IsReferenced(ctx context.Context, id int64) (bool, error)
}

type meetingRepo struct {
	db *gorm.DB
}

// NewMeetingRepo creates a MeetingRepository
func NewMeetingRepo(db *gorm.DB) MeetingRepository {
	return &meetingRepo{db: db}
}

func (r *meetingRepo) Create(ctx context.Context, meeting *model.Meeting) error {
	return translate(r.db.WithContext(ctx).Create(meeting).Error)
}

func (r *meetingRepo) GetByID(ctx context.Context, id int64) (*model.Meeting, error) {
	var meeting model.Meeting
	err := r.db.WithContext(ctx).
		Where("mid = ?", id).
		First(&meeting).Error
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

func (r *meetingRepo) List(ctx context.Context) ([]model.Meeting, error) {
	var meetings []model.Meeting
	err := r.db.WithContext(ctx).Order("cdays ASC, starttime ASC").Find(&meetings).Error
	return meetings, err
}

func (r *meetingRepo) Update(ctx context.Context, meeting *model.Meeting) error {
	return translate(r.db.WithContext(ctx).Save(meeting).Error)
}

func (r *meetingRepo) Delete(ctx context.Context, id int64) error {
	return translate(r.db.WithContext(ctx).
		Where("mid = ?", id).
		Delete(&model.Meeting{}).Error)
}

func (r *meetingRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Meeting{}).
		Where("mid = ?", id).
		Count(&n).Error
	return n > 0, err
}

func (r *meetingRepo) CourseCodeTaken(ctx context.Context, code string, excludeID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Meeting{}).
		Where("ccode = ? AND mid <> ?", code, excludeID).
		Count(&n).Error
	return n > 0, err
}

func (r *meetingRepo) IsReferenced(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Section{}).
		Where("mid = ?", id).
		Count(&n).Error
	return n > 0, err
}
