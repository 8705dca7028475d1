package dto

// ── Section DTOs ──

// SectionRequest fields of a proposed section. Semester and year are checked
// by the placement validator so a bad value is reported as invalid_format.
type SectionRequest struct {
	CourseID  int64  `json:"cid"      binding:"required"`
	MeetingID int64  `json:"mid"      binding:"required"`
	RoomID    int64  `json:"roomid"   binding:"required"`
	Semester  string `json:"semester" binding:"required"`
	Year      string `json:"years"    binding:"required"`
	Capacity  int    `json:"capacity" binding:"min=0"`
}

// UpdateSectionRequest partial section update; omitted fields keep their value.
type UpdateSectionRequest struct {
	CourseID  *int64  `json:"cid"`
	MeetingID *int64  `json:"mid"`
	RoomID    *int64  `json:"roomid"`
	Semester  *string `json:"semester"`
	Year      *string `json:"years"`
	Capacity  *int    `json:"capacity" binding:"omitempty,min=0"`
}

// ValidateSectionRequest dry-run placement check. SectionID 0 checks a new section.
type ValidateSectionRequest struct {
	SectionID int64 `json:"sid"`
	SectionRequest
}

// SectionListRequest list filters
type SectionListRequest struct {
	RoomID   int64  `form:"roomid"   binding:"omitempty,min=1"`
	CourseID int64  `form:"cid"      binding:"omitempty,min=1"`
	Semester string `form:"semester" binding:"omitempty,semester"`
	Year     string `form:"years"    binding:"omitempty,year4"`
}

// SectionResponse section with its course, meeting and room when loaded
type SectionResponse struct {
	ID        int64            `json:"sid"`
	CourseID  int64            `json:"cid"`
	MeetingID int64            `json:"mid"`
	RoomID    int64            `json:"roomid"`
	Semester  string           `json:"semester"`
	Year      string           `json:"years"`
	Capacity  int              `json:"capacity"`
	Course    *CourseBrief     `json:"course,omitempty"`
	Meeting   *MeetingResponse `json:"meeting,omitempty"`
	Room      *RoomBrief       `json:"room,omitempty"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
}

// CourseBrief course summary embedded in a section
type CourseBrief struct {
	ID   int64  `json:"cid"`
	Name string `json:"cname"`
	Code string `json:"ccode"`
}

// RoomBrief room summary embedded in a section
type RoomBrief struct {
	ID         int64  `json:"rid"`
	Building   string `json:"building"`
	RoomNumber string `json:"room_number"`
	Capacity   int    `json:"capacity"`
}

// ValidationResponse outcome of a dry-run check
type ValidationResponse struct {
	Valid       bool    `json:"valid"`
	Kind        string  `json:"kind,omitempty"`
	Message     string  `json:"message,omitempty"`
	ConflictIDs []int64 `json:"conflict_ids,omitempty"`
}
