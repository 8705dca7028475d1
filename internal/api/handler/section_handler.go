package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/dto"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/service"
	"github.com/alejandrobg101/Syllabus-Chatbot/pkg/response"
)

// SectionHandler section HTTP handler. Writes go through the placement
// validator; a rejected placement is answered with 409 and its kind.
type SectionHandler struct {
	sectionSvc service.SectionService
}

// NewSectionHandler creates a SectionHandler
func NewSectionHandler(sectionSvc service.SectionService) *SectionHandler {
	return &SectionHandler{sectionSvc: sectionSvc}
}

// ListSections lists sections, optionally filtered by room, course and term
// GET /api/v1/sections?roomid=&cid=&semester=&years=
func (h *SectionHandler) ListSections(c *gin.Context) {
	var req dto.SectionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	sections, err := h.sectionSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": sections})
}

// GetSection GET /api/v1/sections/:id
func (h *SectionHandler) GetSection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	section, err := h.sectionSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.OK(c, section)
}

// CreateSection POST /api/v1/sections
func (h *SectionHandler) CreateSection(c *gin.Context) {
	var req dto.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	section, err := h.sectionSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.Created(c, section)
}

// UpdateSection PUT /api/v1/sections/:id
func (h *SectionHandler) UpdateSection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	section, err := h.sectionSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.OK(c, section)
}

// DeleteSection DELETE /api/v1/sections/:id
func (h *SectionHandler) DeleteSection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.sectionSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.OK(c, nil)
}

// ValidateSection dry-run placement check. Always 200 unless the store fails.
// POST /api/v1/sections/validate
func (h *SectionHandler) ValidateSection(c *gin.Context) {
	var req dto.ValidateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.sectionSvc.Validate(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

func (h *SectionHandler) handleSectionError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrSectionNotFound):
		response.NotFound(c, 24001, "section not found")
	default:
		response.InternalError(c)
	}
}
