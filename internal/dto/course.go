package dto

// ── Course DTOs ──

// CreateCourseRequest create a course
type CreateCourseRequest struct {
	Name        string `json:"cname"     binding:"required,max=16"`
	Code        string `json:"ccode"     binding:"required,max=16"`
	Description string `json:"cdesc"`
	Term        string `json:"term"      binding:"required"`
	Years       string `json:"years"     binding:"required"`
	Credits     int    `json:"cred"      binding:"min=0"`
	Syllabus    string `json:"csyllabus"`
}

// UpdateCourseRequest partial course update
type UpdateCourseRequest struct {
	Name        *string `json:"cname"     binding:"omitempty,min=1,max=16"`
	Code        *string `json:"ccode"     binding:"omitempty,min=1,max=16"`
	Description *string `json:"cdesc"`
	Term        *string `json:"term"`
	Years       *string `json:"years"`
	Credits     *int    `json:"cred"      binding:"omitempty,min=0"`
	Syllabus    *string `json:"csyllabus"`
}

// CourseResponse course
type CourseResponse struct {
	ID          int64  `json:"cid"`
	Name        string `json:"cname"`
	Code        string `json:"ccode"`
	Description string `json:"cdesc"`
	Term        string `json:"term"`
	Years       string `json:"years"`
	Credits     int    `json:"cred"`
	Syllabus    string `json:"csyllabus"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
