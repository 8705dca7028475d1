package dto

// ── Meeting DTOs ──

// CreateMeetingRequest create a meeting. Times accept "15:04", "15:04:05"
// or an RFC 3339 timestamp whose time of day is used.
type CreateMeetingRequest struct {
	CourseCode string `json:"ccode"     binding:"required,max=16"`
	StartTime  string `json:"starttime" binding:"required"`
	EndTime    string `json:"endtime"   binding:"required"`
	Days       string `json:"cdays"     binding:"required,daypattern"`
}

// UpdateMeetingRequest partial meeting update
type UpdateMeetingRequest struct {
	CourseCode *string `json:"ccode"     binding:"omitempty,min=1,max=16"`
	StartTime  *string `json:"starttime"`
	EndTime    *string `json:"endtime"`
	Days       *string `json:"cdays"     binding:"omitempty,daypattern"`
}

// MeetingResponse meeting
type MeetingResponse struct {
	ID         int64  `json:"mid"`
	CourseCode string `json:"ccode"`
	StartTime  string `json:"starttime"`
	EndTime    string `json:"endtime"`
	Days       string `json:"cdays"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}
