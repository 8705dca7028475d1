package handler

import "github.com/alejandrobg101/Syllabus-Chatbot/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Course    *CourseHandler
	Room      *RoomHandler
	Meeting   *MeetingHandler
	Section   *SectionHandler
	Requisite *RequisiteHandler
	Export    *ExportHandler
}

// NewHandler builds the handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Course:    NewCourseHandler(svc.Course),
		Room:      NewRoomHandler(svc.Room),
		Meeting:   NewMeetingHandler(svc.Meeting),
		Section:   NewSectionHandler(svc.Section),
		Requisite: NewRequisiteHandler(svc.Requisite),
		Export:    NewExportHandler(svc.Export),
	}
}
