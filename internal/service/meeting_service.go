package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/dto"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/model"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/repository"
	pkgerrors "github.com/alejandrobg101/Syllabus-Chatbot/pkg/errors"
)

// ── meeting errors ──

var (
	ErrMeetingNotFound   = errors.New("meeting not found")
	ErrMeetingTimeOrder  = errors.New("meeting start must be before its end")
	ErrInvalidTimeOfDay  = errors.New("invalid time of day")
	ErrInvalidDayPattern = errors.New("invalid day pattern")
	ErrMeetingCodeTaken  = errors.New("another meeting already uses this course number")
	ErrMeetingReferenced = errors.New("meeting is referenced by a section")
)

// MeetingService meeting business interface
type MeetingService interface {
	Create(ctx context.Context, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.MeetingResponse, error)
	List(ctx context.Context) ([]dto.MeetingResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateMeetingRequest) (*dto.MeetingResponse, error)
	Delete(ctx context.Context, id int64) error
}

type meetingService struct {
	repo        *repository.Repository
	dayPatterns []string
	validator   *SectionPlacementValidator
	locker      BucketLocker
	logger      *zap.Logger
}

// NewMeetingService creates a MeetingService accepting the given day-pattern
// codes. validator re-checks the sections of a meeting whose days or times
// change; locker is shared with the section writers.
func NewMeetingService(
	repo *repository.Repository,
	dayPatterns []string,
	validator *SectionPlacementValidator,
	locker BucketLocker,
	logger *zap.Logger,
) MeetingService {
	return &meetingService{
		repo:        repo,
		dayPatterns: dayPatterns,
		validator:   validator,
		locker:      locker,
		logger:      logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *meetingService) Create(ctx context.Context, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, error) {
	meeting := &model.Meeting{
		CourseCode: req.CourseCode,
		Days:       model.DayPattern(req.Days),
	}
	if err := s.applyTimes(meeting, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if err := s.check(ctx, meeting); err != nil {
		return nil, err
	}

	if err := s.repo.Meeting.Create(ctx, meeting); err != nil {
		s.logger.Error("create meeting failed", zap.Error(err))
		return nil, err
	}

	return toMeetingResponse(meeting), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *meetingService) GetByID(ctx context.Context, id int64) (*dto.MeetingResponse, error) {
	meeting, err := s.getMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMeetingResponse(meeting), nil
}

// ────────────────────── List ──────────────────────

func (s *meetingService) List(ctx context.Context) ([]dto.MeetingResponse, error) {
	meetings, err := s.repo.Meeting.List(ctx)
	if err != nil {
		s.logger.Error("list meetings failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.MeetingResponse, 0, len(meetings))
	for i := range meetings {
		result = append(result, *toMeetingResponse(&meetings[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *meetingService) Update(ctx context.Context, id int64, req *dto.UpdateMeetingRequest) (*dto.MeetingResponse, error) {
	meeting, err := s.getMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *meeting

	if req.CourseCode != nil {
		meeting.CourseCode = *req.CourseCode
	}
	if req.Days != nil {
		meeting.Days = model.DayPattern(*req.Days)
	}
	start, end := meeting.StartTime, meeting.EndTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	if err := s.applyTimes(meeting, start, end); err != nil {
		return nil, err
	}
	if err := s.check(ctx, meeting); err != nil {
		return nil, err
	}

	if sameSchedule(&before, meeting) {
		err = s.repo.Meeting.Update(ctx, meeting)
	} else {
		err = s.reschedule(ctx, meeting)
	}
	if err != nil {
		var ve *pkgerrors.ValidationError
		if errors.As(err, &ve) {
			s.logger.Info("meeting reschedule rejected",
				zap.Int64("id", id), zap.String("kind", string(ve.Kind)), zap.Int64s("conflicts", ve.ConflictIDs))
			return nil, err
		}
		if errors.Is(err, ErrBucketBusy) {
			return nil, err
		}
		s.logger.Error("update meeting failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	return toMeetingResponse(meeting), nil
}

// reschedule writes a meeting whose days or times changed. Every section
// using it is validated against the new schedule first, under the buckets of
// those sections and of the meeting itself, in the transaction that writes it.
func (s *meetingService) reschedule(ctx context.Context, meeting *model.Meeting) error {
	filter := repository.SectionFilter{MeetingID: meeting.MeetingID}
	sections, err := s.repo.Section.List(ctx, filter)
	if err != nil {
		return err
	}

	buckets := []string{meetingBucket(meeting.MeetingID)}
	for i := range sections {
		buckets = append(buckets, sectionBucket(sections[i].RoomID, sections[i].Semester, sections[i].Year))
	}
	held := make(map[string]bool, len(buckets))
	for _, key := range buckets {
		held[key] = true
	}

	unlock, err := lockAll(ctx, s.locker, buckets...)
	if err != nil {
		return err
	}
	defer unlock()

	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for _, key := range sortedUnique(buckets) {
			if err := tx.Lock.AdvisoryXactLock(ctx, key); err != nil {
				return err
			}
		}

		// a section may have joined or moved since the list above
		sections, err := tx.Section.List(ctx, filter)
		if err != nil {
			return err
		}
		store := rescheduledStore{SchedulingStore: repository.NewStore(tx), meeting: meeting}
		for i := range sections {
			sec := &sections[i]
			if !held[sectionBucket(sec.RoomID, sec.Semester, sec.Year)] {
				return ErrBucketBusy
			}
			if err := s.validator.ValidateUpdate(ctx, store, sec.SectionID, placementFromSection(sec)); err != nil {
				return err
			}
		}
		return tx.Meeting.Update(ctx, meeting)
	})
}

// ────────────────────── Delete ──────────────────────

func (s *meetingService) Delete(ctx context.Context, id int64) error {
	if _, err := s.getMeeting(ctx, id); err != nil {
		return err
	}

	referenced, err := s.repo.Meeting.IsReferenced(ctx, id)
	if err != nil {
		s.logger.Error("check meeting references failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if referenced {
		return ErrMeetingReferenced
	}

	if err := s.repo.Meeting.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return ErrMeetingReferenced
		}
		s.logger.Error("delete meeting failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

// sameSchedule reports whether a and b meet on the same days and times.
func sameSchedule(a, b *model.Meeting) bool {
	return a.Days == b.Days && a.StartTime == b.StartTime && a.EndTime == b.EndTime
}

func (s *meetingService) getMeeting(ctx context.Context, id int64) (*model.Meeting, error) {
	meeting, err := s.repo.Meeting.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		s.logger.Error("get meeting failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return meeting, nil
}

func (s *meetingService) applyTimes(m *model.Meeting, start, end string) error {
	st, err := parseTimeOfDay(start)
	if err != nil {
		return err
	}
	et, err := parseTimeOfDay(end)
	if err != nil {
		return err
	}
	if st >= et {
		return ErrMeetingTimeOrder
	}
	m.StartTime, m.EndTime = st, et
	return nil
}

// check runs the rules that need the store or the configured codes.
func (s *meetingService) check(ctx context.Context, m *model.Meeting) error {
	if !m.Days.In(s.dayPatterns) {
		return ErrInvalidDayPattern
	}
	taken, err := s.repo.Meeting.CourseCodeTaken(ctx, m.CourseCode, m.MeetingID)
	if err != nil {
		s.logger.Error("lookup meeting course number failed", zap.String("ccode", m.CourseCode), zap.Error(err))
		return err
	}
	if taken {
		return ErrMeetingCodeTaken
	}
	return nil
}

var timeOfDayLayouts = []string{
	"15:04:05",
	"15:04",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// parseTimeOfDay accepts a clock time or a timestamp and returns "HH:MM:SS".
func parseTimeOfDay(v string) (string, error) {
	v = strings.TrimSpace(v)
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", ErrInvalidTimeOfDay
}

func toMeetingResponse(m *model.Meeting) *dto.MeetingResponse {
	return &dto.MeetingResponse{
		ID:         m.MeetingID,
		CourseCode: m.CourseCode,
		StartTime:  m.StartTime,
		EndTime:    m.EndTime,
		Days:       string(m.Days),
		CreatedAt:  m.CreatedAt.Format(timestampLayout),
		UpdatedAt:  m.UpdatedAt.Format(timestampLayout),
	}
}
