package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/model"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/repository"
)

// SchedulingStore is the read side the placement validator and the
// requisite guard depend on. Store failures are returned as-is.
type SchedulingStore interface {
	CourseExists(ctx context.Context, id int64) (bool, error)
	RoomExists(ctx context.Context, id int64) (bool, error)
	MeetingExists(ctx context.Context, id int64) (bool, error)
	SectionExists(ctx context.Context, id int64) (bool, error)

	// RoomCapacity returns gorm.ErrRecordNotFound when the room does not exist.
	RoomCapacity(ctx context.Context, id int64) (int, error)
	// GetMeeting returns gorm.ErrRecordNotFound when the meeting does not exist.
	GetMeeting(ctx context.Context, id int64) (*model.Meeting, error)

	// FindConflictingSections lists sections other than excludeID in the same
	// room and term whose day-pattern code equals the meeting's. An empty
	// result means no conflict.
	FindConflictingSections(ctx context.Context, excludeID, roomID, meetingID int64, semester, year string) ([]model.Section, error)
	// ListRoomTermSections lists sections other than excludeID in the room and
	// term with their meetings loaded.
	ListRoomTermSections(ctx context.Context, roomID int64, semester, year string, excludeID int64) ([]model.Section, error)

	EdgeExists(ctx context.Context, classID, reqID int64) (bool, error)
	// ReverseEdgeExists reports whether reqID → classID exists with prereq = true.
	ReverseEdgeExists(ctx context.Context, reqID, classID int64) (bool, error)
}

var _ SchedulingStore = (*repository.Store)(nil)

// rescheduledStore answers as if meeting had already been saved, so the
// sections using it can be validated before the write.
type rescheduledStore struct {
	SchedulingStore
	meeting *model.Meeting
}

func (s rescheduledStore) GetMeeting(ctx context.Context, id int64) (*model.Meeting, error) {
	if id == s.meeting.MeetingID {
		m := *s.meeting
		return &m, nil
	}
	return s.SchedulingStore.GetMeeting(ctx, id)
}

func (s rescheduledStore) ListRoomTermSections(ctx context.Context, roomID int64, semester, year string, excludeID int64) ([]model.Section, error) {
	sections, err := s.SchedulingStore.ListRoomTermSections(ctx, roomID, semester, year, excludeID)
	if err != nil {
		return nil, err
	}
	for i := range sections {
		if sections[i].MeetingID == s.meeting.MeetingID {
			m := *s.meeting
			sections[i].Meeting = &m
		}
	}
	return sections, nil
}

// FindConflictingSections compares day-pattern codes in memory because the
// stored code of the rescheduled meeting is stale.
func (s rescheduledStore) FindConflictingSections(ctx context.Context, excludeID, roomID, meetingID int64, semester, year string) ([]model.Section, error) {
	proposed, err := s.GetMeeting(ctx, meetingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	sections, err := s.ListRoomTermSections(ctx, roomID, semester, year, excludeID)
	if err != nil {
		return nil, err
	}

	var conflicts []model.Section
	for i := range sections {
		m := sections[i].Meeting
		if m == nil {
			if m, err = s.GetMeeting(ctx, sections[i].MeetingID); err != nil {
				return nil, err
			}
		}
		if m.Days == proposed.Days {
			conflicts = append(conflicts, sections[i])
		}
	}
	return conflicts, nil
}
