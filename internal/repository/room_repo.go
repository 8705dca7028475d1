package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/model"
)

// RoomRepository room data access
type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id int64) (*model.Room, error)
	GetByLocation(ctx context.Context, building, number string) (*model.Room, error)
	List(ctx context.Context) ([]model.Room, error)
	Update(ctx context.Context, room *model.Room) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	// Capacity returns gorm.ErrRecordNotFound when the room does not exist.
	Capacity(ctx context.Context, id int64) (int, error)
	IsReferenced(ctx context.Context, id int64) (bool, error)
}

type roomRepo struct {
	db *gorm.DB
}

// NewRoomRepo creates a RoomRepository
func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	return translate(r.db.WithContext(ctx).Create(room).Error)
}

func (r *roomRepo) GetByID(ctx context.Context, id int64) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Where("rid = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) GetByLocation(ctx context.Context, building, number string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Where("building = ? AND room_number = ?", building, number).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) List(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.WithContext(ctx).Order("building ASC, room_number ASC").Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) Update(ctx context.Context, room *model.Room) error {
	return translate(r.db.WithContext(ctx).Save(room).Error)
}

func (r *roomRepo) Delete(ctx context.Context, id int64) error {
	return translate(r.db.WithContext(ctx).
		Where("rid = ?", id).
		Delete(&model.Room{}).Error)
}

func (r *roomRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Room{}).
		Where("rid = ?", id).
		Count(&n).Error
	return n > 0, err
}

func (r *roomRepo) Capacity(ctx context.Context, id int64) (int, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Select("rid", "capacity").
		Where("rid = ?", id).
		First(&room).Error
	if err != nil {
		return 0, err
	}
	return room.Capacity, nil
}

func (r *roomRepo) IsReferenced(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Section{}).
		Where("roomid = ?", id).
		Count(&n).Error
	return n > 0, err
}
