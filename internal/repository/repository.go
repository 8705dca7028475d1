package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every table repository.
type Repository struct {
	Course    CourseRepository
	Room      RoomRepository
	Meeting   MeetingRepository
	Section   SectionRepository
	Requisite RequisiteRepository
	Lock      LockRepository

	db *gorm.DB
}

// NewRepository builds the aggregate on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Course:    NewCourseRepo(db),
		Room:      NewRoomRepo(db),
		Meeting:   NewMeetingRepo(db),
		Section:   NewSectionRepo(db),
		Requisite: NewRequisiteRepo(db),
		Lock:      NewLockRepo(db),
		db:        db,
	}
}

// WithTx returns an aggregate whose repositories run on tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction runs fn in one database transaction; fn receives repositories
// bound to it. An aggregate assembled without a database (test doubles) runs
// fn directly on itself.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
