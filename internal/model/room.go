package model

// Room maps table room
type Room struct {
	RoomID     int64  `gorm:"column:rid;primaryKey;autoIncrement"         json:"rid"`
	Building   string `gorm:"column:building;type:varchar(64);not null"   json:"building"`
	RoomNumber string `gorm:"column:room_number;type:varchar(16);not null" json:"room_number"`
	Capacity   int    `gorm:"column:capacity;not null"                    json:"capacity"`
	Timestamps
}

func (Room) TableName() string { return "room" }
