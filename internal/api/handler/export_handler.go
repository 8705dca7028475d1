package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/dto"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/service"
	"github.com/alejandrobg101/Syllabus-Chatbot/pkg/response"
)

const (
	xlsxContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	calendarContentType = "text/calendar; charset=utf-8"
)

// ExportHandler export HTTP handler
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportTimetable downloads the term timetable as a workbook
// GET /api/v1/export/timetable?semester=Fall&year=2025
func (h *ExportHandler) ExportTimetable(c *gin.Context) {
	var req dto.TimetableExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportTimetable(c.Request.Context(), req.Semester, req.Year)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportCalendar downloads the term timetable as weekly iCalendar events
// GET /api/v1/export/calendar?semester=Fall&year=2025&from=2025-08-18&until=2025-12-12
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	var req dto.CalendarExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	data, filename, err := h.exportSvc.ExportCalendar(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, calendarContentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoSections):
		response.NotFound(c, 26001, "no sections scheduled for this term")
	case errors.Is(err, service.ErrCalendarRange):
		response.BadRequest(c, 26002, err.Error())
	default:
		response.InternalError(c)
	}
}
