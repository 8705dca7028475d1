package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/alejandrobg101/Syllabus-Chatbot/config"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/repository"
)

const timestampLayout = "2006-01-02T15:04:05Z07:00"

// Service aggregates every service.
type Service struct {
	Course    CourseService
	Room      RoomService
	Meeting   MeetingService
	Section   SectionService
	Requisite RequisiteService
	Export    ExportService

	// Placement is shared by the section and meeting services.
	Placement *SectionPlacementValidator
}

// NewService builds the aggregate. locker serializes the writers of
// sections, requisites, room capacities and meeting schedules.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	locker BucketLocker,
	logger *zap.Logger,
) *Service {
	loc, err := time.LoadLocation(cfg.Database.Timezone)
	if err != nil {
		logger.Warn("unknown time zone, calendar export uses UTC",
			zap.String("timezone", cfg.Database.Timezone), zap.Error(err))
		loc = time.UTC
	}

	placement := NewSectionPlacementValidator(cfg.Scheduling.ConflictPolicy)
	guard := NewRequisiteGraphGuard()

	return &Service{
		Course:    NewCourseService(repo, logger),
		Room:      NewRoomService(repo, locker, logger),
		Meeting:   NewMeetingService(repo, cfg.Scheduling.DayPatterns, placement, locker, logger),
		Section:   NewSectionService(repo, placement, locker, logger),
		Requisite: NewRequisiteService(repo, guard, locker, logger),
		Export:    NewExportService(repo, loc, logger),
		Placement: placement,
	}
}
