package model

import "time"

// Requisite maps table requisite. With Prereq set, ReqID must be passed before
// ClassID; otherwise the edge is a corequisite/related link.
type Requisite struct {
	ClassID   int64     `gorm:"column:classid;primaryKey;autoIncrement:false" json:"classid"`
	ReqID     int64     `gorm:"column:reqid;primaryKey;autoIncrement:false"   json:"reqid"`
	Prereq    bool      `gorm:"column:prereq;not null"                         json:"prereq"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (Requisite) TableName() string { return "requisite" }
