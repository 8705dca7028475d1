package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/dto"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/service"
	"github.com/alejandrobg101/Syllabus-Chatbot/pkg/response"
)

// MeetingHandler meeting HTTP handler
type MeetingHandler struct {
	meetingSvc service.MeetingService
}

// NewMeetingHandler creates a MeetingHandler
func NewMeetingHandler(meetingSvc service.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetingSvc: meetingSvc}
}

// ListMeetings GET /api/v1/meetings
func (h *MeetingHandler) ListMeetings(c *gin.Context) {
	meetings, err := h.meetingSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": meetings})
}

// GetMeeting GET /api/v1/meetings/:id
func (h *MeetingHandler) GetMeeting(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	meeting, err := h.meetingSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleMeetingError(c, err)
		return
	}

	response.OK(c, meeting)
}

// CreateMeeting POST /api/v1/meetings
func (h *MeetingHandler) CreateMeeting(c *gin.Context) {
	var req dto.CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	meeting, err := h.meetingSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleMeetingError(c, err)
		return
	}

	response.Created(c, meeting)
}

// UpdateMeeting PUT /api/v1/meetings/:id
func (h *MeetingHandler) UpdateMeeting(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	meeting, err := h.meetingSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleMeetingError(c, err)
		return
	}

	response.OK(c, meeting)
}

// DeleteMeeting DELETE /api/v1/meetings/:id
func (h *MeetingHandler) DeleteMeeting(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.meetingSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleMeetingError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *MeetingHandler) handleMeetingError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrMeetingNotFound):
		response.NotFound(c, 23001, "meeting not found")
	case errors.Is(err, service.ErrMeetingTimeOrder):
		response.Conflict(c, 23002, "start time must be before end time", nil)
	case errors.Is(err, service.ErrInvalidDayPattern):
		response.Conflict(c, 23003, "unknown day pattern", nil)
	case errors.Is(err, service.ErrMeetingCodeTaken):
		response.Conflict(c, 23004, "another meeting already uses this course number", nil)
	case errors.Is(err, service.ErrMeetingReferenced):
		response.Conflict(c, 23005, "meeting is still used by a section", nil)
	case errors.Is(err, service.ErrInvalidTimeOfDay):
		response.BadRequest(c, 23006, err.Error())
	default:
		response.InternalError(c)
	}
}
