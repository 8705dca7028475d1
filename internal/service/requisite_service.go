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

// ── requisite errors ──

var (
	ErrRequisiteNotFound = errors.New("requisite not found")
)

// RequisiteService requisite edge business interface. Create serializes on
// the unordered course pair the same way sections serialize on room and term.
type RequisiteService interface {
	Create(ctx context.Context, req *dto.CreateRequisiteRequest) (*dto.RequisiteResponse, error)
	Get(ctx context.Context, classID, reqID int64) (*dto.RequisiteResponse, error)
	ListByCourse(ctx context.Context, classID int64) ([]dto.RequisiteResponse, error)
	Delete(ctx context.Context, classID, reqID int64) error
}

type requisiteService struct {
	repo   *repository.Repository
	guard  *RequisiteGraphGuard
	locker BucketLocker
	logger *zap.Logger
}

// NewRequisiteService creates a RequisiteService
func NewRequisiteService(repo *repository.Repository, guard *RequisiteGraphGuard, locker BucketLocker, logger *zap.Logger) RequisiteService {
	return &requisiteService{repo: repo, guard: guard, locker: locker, logger: logger}
}

// pairBucket names the lock of a course pair regardless of edge direction.
func pairBucket(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("requisite:%d:%d", a, b)
}

// ────────────────────── Create ──────────────────────

func (s *requisiteService) Create(ctx context.Context, req *dto.CreateRequisiteRequest) (*dto.RequisiteResponse, error) {
	edge := &model.Requisite{ClassID: req.ClassID, ReqID: req.ReqID, Prereq: true}
	if req.Prereq != nil {
		edge.Prereq = *req.Prereq
	}
	bucket := pairBucket(edge.ClassID, edge.ReqID)

	unlock, err := s.locker.Lock(ctx, bucket)
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Lock.AdvisoryXactLock(ctx, bucket); err != nil {
			return err
		}
		if err := s.guard.ValidateEdge(ctx, repository.NewStore(tx), edge.ClassID, edge.ReqID, edge.Prereq); err != nil {
			return err
		}
		return tx.Requisite.Create(ctx, edge)
	})
	if err != nil {
		switch {
		case pkgerrors.IsValidation(err):
			kind, _ := pkgerrors.KindOf(err)
			s.logger.Info("requisite rejected",
				zap.Int64("classid", edge.ClassID),
				zap.Int64("reqid", edge.ReqID),
				zap.String("kind", string(kind)),
			)
			return nil, err
		case errors.Is(err, repository.ErrUniqueViolation):
			return nil, pkgerrors.New(pkgerrors.KindDuplicateEdge, "%d → %d", edge.ClassID, edge.ReqID)
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return nil, pkgerrors.New(pkgerrors.KindForeignKeyMissing, "course was removed")
		case errors.Is(err, ErrBucketBusy):
			return nil, err
		}
		s.logger.Error("create requisite failed", zap.Error(err))
		return nil, err
	}

	return s.Get(ctx, edge.ClassID, edge.ReqID)
}

// ────────────────────── Get ──────────────────────

func (s *requisiteService) Get(ctx context.Context, classID, reqID int64) (*dto.RequisiteResponse, error) {
	edge, err := s.repo.Requisite.Get(ctx, classID, reqID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequisiteNotFound
		}
		s.logger.Error("get requisite failed", zap.Int64("classid", classID), zap.Int64("reqid", reqID), zap.Error(err))
		return nil, err
	}
	return toRequisiteResponse(edge), nil
}

// ────────────────────── ListByCourse ──────────────────────

func (s *requisiteService) ListByCourse(ctx context.Context, classID int64) ([]dto.RequisiteResponse, error) {
	exists, err := s.repo.Course.Exists(ctx, classID)
	if err != nil {
		s.logger.Error("check course failed", zap.Int64("cid", classID), zap.Error(err))
		return nil, err
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	edges, err := s.repo.Requisite.ListByClass(ctx, classID)
	if err != nil {
		s.logger.Error("list requisites failed", zap.Int64("cid", classID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.RequisiteResponse, 0, len(edges))
	for i := range edges {
		result = append(result, *toRequisiteResponse(&edges[i]))
	}
	return result, nil
}

// ────────────────────── Delete ──────────────────────

func (s *requisiteService) Delete(ctx context.Context, classID, reqID int64) error {
	exists, err := s.repo.Requisite.Exists(ctx, classID, reqID)
	if err != nil {
		s.logger.Error("check requisite failed", zap.Error(err))
		return err
	}
	if !exists {
		return ErrRequisiteNotFound
	}

	if err := s.repo.Requisite.Delete(ctx, classID, reqID); err != nil {
		s.logger.Error("delete requisite failed", zap.Int64("classid", classID), zap.Int64("reqid", reqID), zap.Error(err))
		return err
	}
	return nil
}

func toRequisiteResponse(r *model.Requisite) *dto.RequisiteResponse {
	return &dto.RequisiteResponse{
		ClassID:   r.ClassID,
		ReqID:     r.ReqID,
		Prereq:    r.Prereq,
		CreatedAt: r.CreatedAt.Format(timestampLayout),
	}
}
