package model

// Meeting maps table meeting. Start and end are times of day formatted HH:MM:SS.
type Meeting struct {
	MeetingID  int64      `gorm:"column:mid;primaryKey;autoIncrement"  json:"mid"`
	CourseCode string     `gorm:"column:ccode;type:varchar(16);not null" json:"ccode"`
	StartTime  string     `gorm:"column:starttime;type:time;not null"  json:"starttime"`
	EndTime    string     `gorm:"column:endtime;type:time;not null"    json:"endtime"`
	Days       DayPattern `gorm:"column:cdays;type:varchar(8);not null" json:"cdays"`
	Timestamps
}

func (Meeting) TableName() string { return "meeting" }

// Overlaps reports whether two meetings share a weekday and their time
// ranges intersect. Touching ranges (one ends when the other starts) do not overlap.
func (m *Meeting) Overlaps(other *Meeting) bool {
	if !m.Days.SharesWeekday(other.Days) {
		return false
	}
	return m.StartTime < other.EndTime && other.StartTime < m.EndTime
}
