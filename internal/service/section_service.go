package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/dto"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/model"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/repository"
	pkgerrors "github.com/alejandrobg101/Syllabus-Chatbot/pkg/errors"
)

// ── section errors ──

var (
	ErrSectionNotFound = errors.New("section not found")
)

// SectionService section business interface.
//
// Create and Update serialize on the room and term bucket: the bucket lock is
// held while a single transaction takes the matching advisory lock, runs the
// placement validator on a transaction-bound store and writes the row. Two
// requests for the same room and term can therefore not both pass validation.
type SectionService interface {
	Create(ctx context.Context, req *dto.SectionRequest) (*dto.SectionResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.SectionResponse, error)
	List(ctx context.Context, req *dto.SectionListRequest) ([]dto.SectionResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateSectionRequest) (*dto.SectionResponse, error)
	Delete(ctx context.Context, id int64) error
	// Validate runs the placement checks without writing.
	Validate(ctx context.Context, req *dto.ValidateSectionRequest) (*dto.ValidationResponse, error)
}

type sectionService struct {
	repo      *repository.Repository
	validator *SectionPlacementValidator
	locker    BucketLocker
	logger    *zap.Logger
}

// NewSectionService creates a SectionService
func NewSectionService(repo *repository.Repository, validator *SectionPlacementValidator, locker BucketLocker, logger *zap.Logger) SectionService {
	return &sectionService{repo: repo, validator: validator, locker: locker, logger: logger}
}

// sectionBucket names the lock shared by every section of a room and term.
func sectionBucket(roomID int64, semester, year string) string {
	return fmt.Sprintf("section:%d:%s:%s", roomID, semester, year)
}

// roomBucket guards a room's capacity against the sections placed in it.
func roomBucket(roomID int64) string {
	return fmt.Sprintf("room:%d", roomID)
}

// meetingBucket guards a meeting's schedule against the sections using it.
func meetingBucket(meetingID int64) string {
	return fmt.Sprintf("meeting:%d", meetingID)
}

// placementBuckets every lock a section written with p must hold.
func placementBuckets(p SectionPlacement) []string {
	return []string{
		sectionBucket(p.RoomID, p.Semester, p.Year),
		roomBucket(p.RoomID),
		meetingBucket(p.MeetingID),
	}
}

// ────────────────────── Create ──────────────────────

func (s *sectionService) Create(ctx context.Context, req *dto.SectionRequest) (*dto.SectionResponse, error) {
	p := placementFromRequest(req)
	section := &model.Section{
		CourseID:  p.CourseID,
		MeetingID: p.MeetingID,
		RoomID:    p.RoomID,
		Semester:  p.Semester,
		Year:      p.Year,
		Capacity:  p.Capacity,
	}

	err := s.write(ctx, placementBuckets(p), func(tx *repository.Repository) error {
		if err := s.validator.ValidateNew(ctx, repository.NewStore(tx), p); err != nil {
			return err
		}
		return tx.Section.Create(ctx, section)
	})
	if err != nil {
		return nil, s.writeError("create section", 0, err)
	}

	s.logger.Info("section created",
		zap.Int64("sid", section.SectionID),
		zap.Int64("roomid", section.RoomID),
		zap.String("term", section.Semester+" "+section.Year),
	)
	return s.GetByID(ctx, section.SectionID)
}

// ────────────────────── GetByID ──────────────────────

func (s *sectionService) GetByID(ctx context.Context, id int64) (*dto.SectionResponse, error) {
	section, err := s.repo.Section.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		s.logger.Error("get section failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return toSectionResponse(section), nil
}

// ────────────────────── List ──────────────────────

func (s *sectionService) List(ctx context.Context, req *dto.SectionListRequest) ([]dto.SectionResponse, error) {
	sections, err := s.repo.Section.List(ctx, repository.SectionFilter{
		RoomID:   req.RoomID,
		CourseID: req.CourseID,
		Semester: model.NormalizeSemester(req.Semester),
		Year:     req.Year,
	})
	if err != nil {
		s.logger.Error("list sections failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SectionResponse, 0, len(sections))
	for i := range sections {
		result = append(result, *toSectionResponse(&sections[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

// Update merges req into the row read inside the transaction. When another
// writer moved the section out of the locked buckets in the meantime the
// update fails with ErrBucketBusy and nothing is written.
func (s *sectionService) Update(ctx context.Context, id int64, req *dto.UpdateSectionRequest) (*dto.SectionResponse, error) {
	current, err := s.repo.Section.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.KindNotFound, "section %d", id)
		}
		s.logger.Error("get section failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	planned := mergePlacement(current, req)
	buckets := append(placementBuckets(planned), sectionBucket(current.RoomID, current.Semester, current.Year))

	err = s.write(ctx, buckets, func(tx *repository.Repository) error {
		row, err := tx.Section.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.KindNotFound, "section %d", id)
			}
			return err
		}
		if !sameBuckets(row, current) {
			return ErrBucketBusy
		}

		p := mergePlacement(row, req)
		if err := s.validator.ValidateUpdate(ctx, repository.NewStore(tx), id, p); err != nil {
			return err
		}
		return tx.Section.Update(ctx, &model.Section{
			SectionID:  id,
			CourseID:   p.CourseID,
			MeetingID:  p.MeetingID,
			RoomID:     p.RoomID,
			Semester:   p.Semester,
			Year:       p.Year,
			Capacity:   p.Capacity,
			Timestamps: row.Timestamps,
		})
	})
	if err != nil {
		return nil, s.writeError("update section", id, err)
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *sectionService) Delete(ctx context.Context, id int64) error {
	exists, err := s.repo.Section.Exists(ctx, id)
	if err != nil {
		s.logger.Error("check section failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if !exists {
		return ErrSectionNotFound
	}

	if err := s.repo.Section.Delete(ctx, id); err != nil {
		s.logger.Error("delete section failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Validate ──────────────────────

func (s *sectionService) Validate(ctx context.Context, req *dto.ValidateSectionRequest) (*dto.ValidationResponse, error) {
	p := placementFromRequest(&req.SectionRequest)
	store := repository.NewStore(s.repo)

	var err error
	if req.SectionID > 0 {
		err = s.validator.ValidateUpdate(ctx, store, req.SectionID, p)
	} else {
		err = s.validator.ValidateNew(ctx, store, p)
	}
	return validationResponse(err)
}

// ── helpers ──

// write holds the bucket locks and runs fn in a transaction that first
// takes the advisory lock of every bucket.
func (s *sectionService) write(ctx context.Context, buckets []string, fn func(tx *repository.Repository) error) error {
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
		return fn(tx)
	})
}

// writeError logs store failures and turns a constraint violation raised by
// a concurrent delete into the matching validation kind.
func (s *sectionService) writeError(op string, id int64, err error) error {
	if pkgerrors.IsValidation(err) {
		kind, _ := pkgerrors.KindOf(err)
		s.logger.Info(op+" rejected", zap.Int64("id", id), zap.String("kind", string(kind)))
		return err
	}
	if errors.Is(err, repository.ErrForeignKeyViolation) {
		return pkgerrors.New(pkgerrors.KindForeignKeyMissing, "course, room or meeting was removed")
	}
	if errors.Is(err, ErrBucketBusy) {
		return err
	}
	s.logger.Error(op+" failed", zap.Int64("id", id), zap.Error(err))
	return err
}

// mergePlacement applies the fields set in req on top of row.
func mergePlacement(row *model.Section, req *dto.UpdateSectionRequest) SectionPlacement {
	p := placementFromSection(row)
	if req.CourseID != nil {
		p.CourseID = *req.CourseID
	}
	if req.RoomID != nil {
		p.RoomID = *req.RoomID
	}
	if req.MeetingID != nil {
		p.MeetingID = *req.MeetingID
	}
	if req.Semester != nil {
		p.Semester = model.NormalizeSemester(*req.Semester)
	}
	if req.Year != nil {
		p.Year = *req.Year
	}
	if req.Capacity != nil {
		p.Capacity = *req.Capacity
	}
	return p
}

// sameBuckets reports whether a and b lock the same room, term and meeting.
func sameBuckets(a, b *model.Section) bool {
	return a.RoomID == b.RoomID && a.Semester == b.Semester && a.Year == b.Year && a.MeetingID == b.MeetingID
}

func placementFromSection(sec *model.Section) SectionPlacement {
	return SectionPlacement{
		CourseID:  sec.CourseID,
		RoomID:    sec.RoomID,
		MeetingID: sec.MeetingID,
		Semester:  sec.Semester,
		Year:      sec.Year,
		Capacity:  sec.Capacity,
	}
}

func placementFromRequest(req *dto.SectionRequest) SectionPlacement {
	return SectionPlacement{
		CourseID:  req.CourseID,
		RoomID:    req.RoomID,
		MeetingID: req.MeetingID,
		Semester:  model.NormalizeSemester(req.Semester),
		Year:      req.Year,
		Capacity:  req.Capacity,
	}
}

// validationResponse reports a validation kind as an outcome and returns
// any other error.
func validationResponse(err error) (*dto.ValidationResponse, error) {
	if err == nil {
		return &dto.ValidationResponse{Valid: true}, nil
	}
	var ve *pkgerrors.ValidationError
	if !errors.As(err, &ve) {
		return nil, err
	}
	return &dto.ValidationResponse{
		Valid:       false,
		Kind:        string(ve.Kind),
		Message:     ve.Error(),
		ConflictIDs: ve.ConflictIDs,
	}, nil
}

func toSectionResponse(sec *model.Section) *dto.SectionResponse {
	resp := &dto.SectionResponse{
		ID:        sec.SectionID,
		CourseID:  sec.CourseID,
		MeetingID: sec.MeetingID,
		RoomID:    sec.RoomID,
		Semester:  sec.Semester,
		Year:      sec.Year,
		Capacity:  sec.Capacity,
		CreatedAt: sec.CreatedAt.Format(timestampLayout),
		UpdatedAt: sec.UpdatedAt.Format(timestampLayout),
	}
	if sec.Course != nil {
		resp.Course = &dto.CourseBrief{ID: sec.Course.CourseID, Name: sec.Course.Name, Code: sec.Course.Code}
	}
	if sec.Meeting != nil {
		resp.Meeting = toMeetingResponse(sec.Meeting)
	}
	if sec.Room != nil {
		resp.Room = &dto.RoomBrief{
			ID:         sec.Room.RoomID,
			Building:   sec.Room.Building,
			RoomNumber: sec.Room.RoomNumber,
			Capacity:   sec.Room.Capacity,
		}
	}
	return resp
}
