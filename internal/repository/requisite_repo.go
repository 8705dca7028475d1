package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/model"
)

// RequisiteRepository requisite edge data access
type RequisiteRepository interface {
	Create(ctx context.Context, edge *model.Requisite) error
	Get(ctx context.Context, classID, reqID int64) (*model.Requisite, error)
	ListByClass(ctx context.Context, classID int64) ([]model.Requisite, error)
	Delete(ctx context.Context, classID, reqID int64) error
	Exists(ctx context.Context, classID, reqID int64) (bool, error)
	// PrereqExists reports whether classID → reqID is stored with prereq = true.
	PrereqExists(ctx context.Context, classID, reqID int64) (bool, error)
}

type requisiteRepo struct {
	db *gorm.DB
}

// NewRequisiteRepo creates a RequisiteRepository
func NewRequisiteRepo(db *gorm.DB) RequisiteRepository {
	return &requisiteRepo{db: db}
}

func (r *requisiteRepo) Create(ctx context.Context, edge *model.Requisite) error {
	return translate(r.db.WithContext(ctx).Create(edge).Error)
}

func (r *requisiteRepo) Get(ctx context.Context, classID, reqID int64) (*model.Requisite, error) {
	var edge model.Requisite
	err := r.db.WithContext(ctx).
		Where("classid = ? AND reqid = ?", classID, reqID).
		First(&edge).Error
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

func (r *requisiteRepo) ListByClass(ctx context.Context, classID int64) ([]model.Requisite, error) {
	var edges []model.Requisite
	err := r.db.WithContext(ctx).
		Where("classid = ?", classID).
		Order("reqid ASC").
		Find(&edges).Error
	return edges, err
}

func (r *requisiteRepo) Delete(ctx context.Context, classID, reqID int64) error {
	return translate(r.db.WithContext(ctx).
		Where("classid = ? AND reqid = ?", classID, reqID).
		Delete(&model.Requisite{}).Error)
}

func (r *requisiteRepo) Exists(ctx context.Context, classID, reqID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Requisite{}).
		Where("classid = ? AND reqid = ?", classID, reqID).
		Count(&n).Error
	return n > 0, err
}

func (r *requisiteRepo) PrereqExists(ctx context.Context, classID, reqID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Requisite{}).
		Where("classid = ? AND reqid = ? AND prereq = ?", classID, reqID, true).
		Count(&n).Error
	return n > 0, err
}
