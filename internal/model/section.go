package model

import "strings"

// Semester values accepted for a section's term
const (
	SemesterFall   = "Fall"
	SemesterSpring = "Spring"
	SemesterV1     = "V1"
	SemesterV2     = "V2"
)

// Semesters closed set of term semesters
var Semesters = []string{SemesterFall, SemesterSpring, SemesterV1, SemesterV2}

// Section maps table section
type Section struct {
	SectionID int64  `gorm:"column:sid;primaryKey;autoIncrement"  json:"sid"`
	CourseID  int64  `gorm:"column:cid;not null"                  json:"cid"`
	MeetingID int64  `gorm:"column:mid;not null"                  json:"mid"`
	RoomID    int64  `gorm:"column:roomid;not null"               json:"roomid"`
	Semester  string `gorm:"column:semester;type:varchar(8);not null" json:"semester"`
	Year      string `gorm:"column:years;type:char(4);not null"   json:"years"`
	Capacity  int    `gorm:"column:capacity;not null"             json:"capacity"`
	Timestamps

	// associations
	Course  *Course  `gorm:"foreignKey:CourseID;references:CourseID"   json:"course,omitempty"`
	Meeting *Meeting `gorm:"foreignKey:MeetingID;references:MeetingID" json:"meeting,omitempty"`
	Room    *Room    `gorm:"foreignKey:RoomID;references:RoomID"       json:"room,omitempty"`
}

func (Section) TableName() string { return "section" }

// NormalizeSemester upper-cases the first letter and lower-cases the rest,
// so "fall" and "FALL" both become "Fall". "v1" becomes "V1".
func NormalizeSemester(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// ValidSemester reports whether s is one of Semesters, by exact match.
func ValidSemester(s string) bool {
	for _, v := range Semesters {
		if s == v {
			return true
		}
	}
	return false
}

// ValidYear reports whether y is exactly four ASCII digits.
func ValidYear(y string) bool {
	if len(y) != 4 {
		return false
	}
	for i := 0; i < len(y); i++ {
		if y[i] < '0' || y[i] > '9' {
			return false
		}
	}
	return true
}
