package dto

// ── Requisite DTOs ──

// CreateRequisiteRequest propose an edge. Prereq defaults to true.
type CreateRequisiteRequest struct {
	ClassID int64 `json:"classid" binding:"required"`
	ReqID   int64 `json:"reqid"   binding:"required"`
	Prereq  *bool `json:"prereq"`
}

// RequisiteResponse edge
type RequisiteResponse struct {
	ClassID   int64  `json:"classid"`
	ReqID     int64  `json:"reqid"`
	Prereq    bool   `json:"prereq"`
	CreatedAt string `json:"created_at"`
}
