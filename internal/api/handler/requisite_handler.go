package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/dto"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/service"
	"github.com/alejandrobg101/Syllabus-Chatbot/pkg/response"
)

// RequisiteHandler requisite edge HTTP handler
type RequisiteHandler struct {
	requisiteSvc service.RequisiteService
}

// NewRequisiteHandler creates a RequisiteHandler
func NewRequisiteHandler(requisiteSvc service.RequisiteService) *RequisiteHandler {
	return &RequisiteHandler{requisiteSvc: requisiteSvc}
}

// CreateRequisite POST /api/v1/requisites
func (h *RequisiteHandler) CreateRequisite(c *gin.Context) {
	var req dto.CreateRequisiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	edge, err := h.requisiteSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleRequisiteError(c, err)
		return
	}

	response.Created(c, edge)
}

// ListCourseRequisites edges whose dependent course is :id
// GET /api/v1/courses/:id/requisites
func (h *RequisiteHandler) ListCourseRequisites(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	edges, err := h.requisiteSvc.ListByCourse(c.Request.Context(), id)
	if err != nil {
		h.handleRequisiteError(c, err)
		return
	}

	response.OK(c, gin.H{"list": edges})
}

// GetRequisite GET /api/v1/requisites/:classid/:reqid
func (h *RequisiteHandler) GetRequisite(c *gin.Context) {
	classID, reqID, ok := parseEdge(c)
	if !ok {
		return
	}

	edge, err := h.requisiteSvc.Get(c.Request.Context(), classID, reqID)
	if err != nil {
		h.handleRequisiteError(c, err)
		return
	}

	response.OK(c, edge)
}

// DeleteRequisite DELETE /api/v1/requisites/:classid/:reqid
func (h *RequisiteHandler) DeleteRequisite(c *gin.Context) {
	classID, reqID, ok := parseEdge(c)
	if !ok {
		return
	}

	if err := h.requisiteSvc.Delete(c.Request.Context(), classID, reqID); err != nil {
		h.handleRequisiteError(c, err)
		return
	}

	response.OK(c, nil)
}

func parseEdge(c *gin.Context) (int64, int64, bool) {
	classID, ok := parseID(c, "classid")
	if !ok {
		return 0, 0, false
	}
	reqID, ok := parseID(c, "reqid")
	if !ok {
		return 0, 0, false
	}
	return classID, reqID, true
}

func (h *RequisiteHandler) handleRequisiteError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrRequisiteNotFound):
		response.NotFound(c, 25001, "requisite not found")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 21001, "course not found")
	default:
		response.InternalError(c)
	}
}
