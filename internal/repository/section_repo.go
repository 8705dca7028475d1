package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/model"
)

// SectionFilter narrows List. Zero values are ignored.
type SectionFilter struct {
	RoomID    int64
	CourseID  int64
	MeetingID int64
	Semester  string
	Year      string
}

// SectionRepository section data access
type SectionRepository interface {
	Create(ctx context.Context, section *model.Section) error
	GetByID(ctx context.Context, id int64) (*model.Section, error)
	List(ctx context.Context, filter SectionFilter) ([]model.Section, error)
	Update(ctx context.Context, section *model.Section) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)

	// FindConflicting returns the sections other than excludeID in the same
	// room and term whose meeting uses the same day-pattern code as meetingID.
	FindConflicting(ctx context.Context, excludeID, roomID, meetingID int64, semester, year string) ([]model.Section, error)
	// ListByRoomTerm returns the sections other than excludeID in the room and
	// term, with their meeting loaded.
	ListByRoomTerm(ctx context.Context, roomID int64, semester, year string, excludeID int64) ([]model.Section, error)
	// ListByTerm returns every section of the term with all associations loaded.
	ListByTerm(ctx context.Context, semester, year string) ([]model.Section, error)
	// MaxCapacityInRoom returns the largest section capacity placed in the
	// room, or 0 when the room holds no section.
	MaxCapacityInRoom(ctx context.Context, roomID int64) (int, error)
}

type sectionRepo struct {
	db *gorm.DB
}

// NewSectionRepo creates a SectionRepository
func NewSectionRepo(db *gorm.DB) SectionRepository {
	return &sectionRepo{db: db}
}

// ────────────────────── CRUD ──────────────────────

func (r *sectionRepo) Create(ctx context.Context, section *model.Section) error {
	return translate(r.db.WithContext(ctx).Omit("Course", "Meeting", "Room").Create(section).Error)
}

func (r *sectionRepo) GetByID(ctx context.Context, id int64) (*model.Section, error) {
	var section model.Section
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Meeting").
		Preload("Room").
		Where("sid = ?", id).
		First(&section).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *sectionRepo) List(ctx context.Context, filter SectionFilter) ([]model.Section, error) {
	query := r.db.WithContext(ctx).Model(&model.Section{})
	if filter.RoomID > 0 {
		query = query.Where("roomid = ?", filter.RoomID)
	}
	if filter.CourseID > 0 {
		query = query.Where("cid = ?", filter.CourseID)
	}
	if filter.MeetingID > 0 {
		query = query.Where("mid = ?", filter.MeetingID)
	}
	if filter.Semester != "" {
		query = query.Where("semester = ?", filter.Semester)
	}
	if filter.Year != "" {
		query = query.Where("years = ?", filter.Year)
	}

	var sections []model.Section
	err := query.Order("sid ASC").Find(&sections).Error
	return sections, err
}

func (r *sectionRepo) Update(ctx context.Context, section *model.Section) error {
	return translate(r.db.WithContext(ctx).Omit("Course", "Meeting", "Room").Save(section).Error)
}

func (r *sectionRepo) Delete(ctx context.Context, id int64) error {
	return translate(r.db.WithContext(ctx).
		Where("sid = ?", id).
		Delete(&model.Section{}).Error)
}

func (r *sectionRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Section{}).
		Where("sid = ?", id).
		Count(&n).Error
	return n > 0, err
}

// ────────────────────── Placement queries ──────────────────────

func (r *sectionRepo) FindConflicting(ctx context.Context, excludeID, roomID, meetingID int64, semester, year string) ([]model.Section, error) {
	var sections []model.Section
	err := r.db.WithContext(ctx).
		Select("section.*").
		Joins("JOIN meeting ON meeting.mid = section.mid").
		Where("section.roomid = ? AND section.semester = ? AND section.years = ?", roomID, semester, year).
		Where("section.sid <> ?", excludeID).
		Where("meeting.cdays = (SELECT m.cdays FROM meeting m WHERE m.mid = ?)", meetingID).
		Order("section.sid ASC").
		Find(&sections).Error
	return sections, err
}

func (r *sectionRepo) ListByRoomTerm(ctx context.Context, roomID int64, semester, year string, excludeID int64) ([]model.Section, error) {
	var sections []model.Section
	err := r.db.WithContext(ctx).
		Preload("Meeting").
		Where("roomid = ? AND semester = ? AND years = ? AND sid <> ?", roomID, semester, year, excludeID).
		Order("sid ASC").
		Find(&sections).Error
	return sections, err
}

func (r *sectionRepo) ListByTerm(ctx context.Context, semester, year string) ([]model.Section, error) {
	var sections []model.Section
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Meeting").
		Preload("Room").
		Where("semester = ? AND years = ?", semester, year).
		Order("roomid ASC, sid ASC").
		Find(&sections).Error
	return sections, err
}

func (r *sectionRepo) MaxCapacityInRoom(ctx context.Context, roomID int64) (int, error) {
	var capacity int
	err := r.db.WithContext(ctx).Model(&model.Section{}).
		Select("COALESCE(MAX(capacity), 0)").
		Where("roomid = ?", roomID).
		Scan(&capacity).Error
	return capacity, err
}
