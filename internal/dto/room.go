package dto

// ── Room DTOs ──

// CreateRoomRequest create a room
type CreateRoomRequest struct {
	Building   string `json:"building"    binding:"required,max=64"`
	RoomNumber string `json:"room_number" binding:"required,max=16"`
	Capacity   int    `json:"capacity"    binding:"min=0"`
}

// UpdateRoomRequest partial room update
type UpdateRoomRequest struct {
	Building   *string `json:"building"    binding:"omitempty,min=1,max=64"`
	RoomNumber *string `json:"room_number" binding:"omitempty,min=1,max=16"`
	Capacity   *int    `json:"capacity"    binding:"omitempty,min=0"`
}

// RoomResponse room
type RoomResponse struct {
	ID         int64  `json:"rid"`
	Building   string `json:"building"`
	RoomNumber string `json:"room_number"`
	Capacity   int    `json:"capacity"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}
