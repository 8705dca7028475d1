package dto

// ── Export DTOs ──

// TimetableExportRequest term to export
type TimetableExportRequest struct {
	Semester string `form:"semester" binding:"required,semester"`
	Year     string `form:"year"     binding:"required,year4"`
}

// CalendarExportRequest term and date range to expand into weekly events.
// Dates are YYYY-MM-DD in the service time zone.
type CalendarExportRequest struct {
	Semester string `form:"semester" binding:"required,semester"`
	Year     string `form:"year"     binding:"required,year4"`
	From     string `form:"from"     binding:"required,datetime=2006-01-02"`
	Until    string `form:"until"    binding:"required,datetime=2006-01-02"`
}
