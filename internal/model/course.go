package model

// TermPolicy which semester a course is normally offered in
type TermPolicy string

const (
	TermFirstSemester  TermPolicy = "First Semester"
	TermSecondSemester TermPolicy = "Second Semester"
	TermOnDemand       TermPolicy = "According to Demand"
)

// YearPolicy which academic years a course is offered in
type YearPolicy string

const (
	YearsEveryYear YearPolicy = "Every Year"
	YearsOnDemand  YearPolicy = "According to Demand"
	YearsOddYears  YearPolicy = "Odd Years"
)

// Valid reports whether p is one of the known term policies.
func (p TermPolicy) Valid() bool {
	switch p {
	case TermFirstSemester, TermSecondSemester, TermOnDemand:
		return true
	}
	return false
}

// Valid reports whether p is one of the known year policies.
func (p YearPolicy) Valid() bool {
	switch p {
	case YearsEveryYear, YearsOnDemand, YearsOddYears:
		return true
	}
	return false
}

// Course maps table class
type Course struct {
	CourseID    int64      `gorm:"column:cid;primaryKey;autoIncrement" json:"cid"`
	Name        string     `gorm:"column:cname;type:varchar(16);not null" json:"cname"` // department mnemonic, e.g. CIIC
	Code        string     `gorm:"column:ccode;type:varchar(16);not null" json:"ccode"` // course number, unique
	Description string     `gorm:"column:cdesc;type:text"                 json:"cdesc"`
	Term        TermPolicy `gorm:"column:term;type:varchar(32);not null"  json:"term"`
	Years       YearPolicy `gorm:"column:years;type:varchar(32);not null" json:"years"`
	Credits     int        `gorm:"column:cred;not null"                   json:"cred"`
	Syllabus    string     `gorm:"column:csyllabus;type:text"             json:"csyllabus"`
	Timestamps
}

func (Course) TableName() string { return "class" }
