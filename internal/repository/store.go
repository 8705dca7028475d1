package repository

import (
	"context"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/model"
)

// Store exposes the read operations the placement validator and the
// requisite guard consume, backed by the table repositories of one aggregate.
// Build it from a transaction-bound aggregate to validate and write atomically.
type Store struct {
	repo *Repository
}

// NewStore wraps repo.
func NewStore(repo *Repository) *Store {
	return &Store{repo: repo}
}

func (s *Store) CourseExists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Course.Exists(ctx, id)
}

func (s *Store) RoomExists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Room.Exists(ctx, id)
}

func (s *Store) MeetingExists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Meeting.Exists(ctx, id)
}

func (s *Store) SectionExists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Section.Exists(ctx, id)
}

// RoomCapacity returns gorm.ErrRecordNotFound for an unknown room.
func (s *Store) RoomCapacity(ctx context.Context, id int64) (int, error) {
	return s.repo.Room.Capacity(ctx, id)
}

// GetMeeting returns gorm.ErrRecordNotFound for an unknown meeting.
func (s *Store) GetMeeting(ctx context.Context, id int64) (*model.Meeting, error) {
	return s.repo.Meeting.GetByID(ctx, id)
}

func (s *Store) FindConflictingSections(ctx context.Context, excludeID, roomID, meetingID int64, semester, year string) ([]model.Section, error) {
	return s.repo.Section.FindConflicting(ctx, excludeID, roomID, meetingID, semester, year)
}

func (s *Store) ListRoomTermSections(ctx context.Context, roomID int64, semester, year string, excludeID int64) ([]model.Section, error) {
	return s.repo.Section.ListByRoomTerm(ctx, roomID, semester, year, excludeID)
}

func (s *Store) EdgeExists(ctx context.Context, classID, reqID int64) (bool, error) {
	return s.repo.Requisite.Exists(ctx, classID, reqID)
}

// ReverseEdgeExists reports whether reqID → classID is stored as a prerequisite.
func (s *Store) ReverseEdgeExists(ctx context.Context, reqID, classID int64) (bool, error) {
	return s.repo.Requisite.PrereqExists(ctx, reqID, classID)
}
