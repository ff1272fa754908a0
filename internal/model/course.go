package model

// swagger:model Course
type Course struct {
	UUIDBase
	Title        string `gorm:"size:255;not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	InstructorID string `gorm:"index;type:varchar(36)" json:"instructorId"`
	Instructor   *User  `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
