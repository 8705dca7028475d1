package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/dto"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/model"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/repository"
	pkgerrors "github.com/alejandrobg101/Syllabus-Chatbot/pkg/errors"
)

// ── room errors ──

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomTaken      = errors.New("room (building, room_number) already exists")
	ErrRoomReferenced = errors.New("room is referenced by a section")
)

// RoomService room business interface
type RoomService interface {
	Create(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.RoomResponse, error)
	List(ctx context.Context) ([]dto.RoomResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateRoomRequest) (*dto.RoomResponse, error)
	Delete(ctx context.Context, id int64) error
}

type roomService struct {
	repo   *repository.Repository
	locker BucketLocker
	logger *zap.Logger
}

// NewRoomService creates a RoomService. locker is shared with the section
// writers so a capacity change and a section placement in the same room
// never interleave.
func NewRoomService(repo *repository.Repository, locker BucketLocker, logger *zap.Logger) RoomService {
	return &roomService{repo: repo, locker: locker, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *roomService) Create(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	room := &model.Room{
		Building:   req.Building,
		RoomNumber: req.RoomNumber,
		Capacity:   req.Capacity,
	}
	if err := s.ensureLocationFree(ctx, room.Building, room.RoomNumber, 0); err != nil {
		return nil, err
	}

	if err := s.repo.Room.Create(ctx, room); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, ErrRoomTaken
		}
		s.logger.Error("create room failed", zap.Error(err))
		return nil, err
	}

	return toRoomResponse(room), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *roomService) GetByID(ctx context.Context, id int64) (*dto.RoomResponse, error) {
	room, err := s.getRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRoomResponse(room), nil
}

// ────────────────────── List ──────────────────────

func (s *roomService) List(ctx context.Context) ([]dto.RoomResponse, error) {
	rooms, err := s.repo.Room.List(ctx)
	if err != nil {
		s.logger.Error("list rooms failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		result = append(result, *toRoomResponse(&rooms[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *roomService) Update(ctx context.Context, id int64, req *dto.UpdateRoomRequest) (*dto.RoomResponse, error) {
	room, err := s.getRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Building != nil {
		room.Building = *req.Building
	}
	if req.RoomNumber != nil {
		room.RoomNumber = *req.RoomNumber
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}

	if err := s.ensureLocationFree(ctx, room.Building, room.RoomNumber, room.RoomID); err != nil {
		return nil, err
	}

	unlock, err := lockAll(ctx, s.locker, roomBucket(id))
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Lock.AdvisoryXactLock(ctx, roomBucket(id)); err != nil {
			return err
		}
		placed, err := tx.Section.MaxCapacityInRoom(ctx, id)
		if err != nil {
			return err
		}
		if room.Capacity < placed {
			return pkgerrors.New(pkgerrors.KindCapacityExceeded,
				"room %d holds a section of capacity %d, requested %d", id, placed, room.Capacity)
		}
		return tx.Room.Update(ctx, room)
	})
	if err != nil {
		switch {
		case pkgerrors.IsValidation(err), errors.Is(err, ErrBucketBusy):
			return nil, err
		case errors.Is(err, repository.ErrUniqueViolation):
			return nil, ErrRoomTaken
		}
		s.logger.Error("update room failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	return toRoomResponse(room), nil
}

// ────────────────────── Delete ──────────────────────

func (s *roomService) Delete(ctx context.Context, id int64) error {
	if _, err := s.getRoom(ctx, id); err != nil {
		return err
	}

	referenced, err := s.repo.Room.IsReferenced(ctx, id)
	if err != nil {
		s.logger.Error("check room references failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if referenced {
		return ErrRoomReferenced
	}

	if err := s.repo.Room.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return ErrRoomReferenced
		}
		s.logger.Error("delete room failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

func (s *roomService) getRoom(ctx context.Context, id int64) (*model.Room, error) {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("get room failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return room, nil
}

func (s *roomService) ensureLocationFree(ctx context.Context, building, number string, selfID int64) error {
	other, err := s.repo.Room.GetByLocation(ctx, building, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("lookup room location failed", zap.Error(err))
		return err
	}
	if other.RoomID != selfID {
		return ErrRoomTaken
	}
	return nil
}

func toRoomResponse(r *model.Room) *dto.RoomResponse {
	return &dto.RoomResponse{
		ID:         r.RoomID,
		Building:   r.Building,
		RoomNumber: r.RoomNumber,
		Capacity:   r.Capacity,
		CreatedAt:  r.CreatedAt.Format(timestampLayout),
		UpdatedAt:  r.UpdatedAt.Format(timestampLayout),
	}
}
