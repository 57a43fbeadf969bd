package dbmodels

import (
	"fmt"
	"labor-mobility-backend/models"
	"strings"
	"time"
)

type Candidate struct {
	BaseSpaceModel
	UserID    string `gorm:"type:varchar(36);uniqueIndex"`
	FirstName string `gorm:"type:varchar(150)"`
	LastName  string `gorm:"type:varchar(150)"`
	Email     string `gorm:"type:varchar(255)"`
}

func (c Candidate) GetFullName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", c.FirstName, c.LastName))
}

type Course struct {
	BaseSpaceModel
	Name     string          `gorm:"type:varchar(255)"`
	Trainers []CourseTrainer `gorm:"foreignKey:CourseID"`
}

type CourseTrainer struct {
	BaseModel
	CourseID  string `gorm:"type:varchar(36);uniqueIndex:idx_course_trainer"`
	TrainerID string `gorm:"type:varchar(36);uniqueIndex:idx_course_trainer;index"`
}

type Enrollment struct {
	BaseSpaceModel
	CourseID    string `gorm:"type:varchar(36);index"`
	CandidateID string `gorm:"type:varchar(36);index"`
}

type AttendanceRecord struct {
	BaseSpaceModel
	CourseID     string                  `gorm:"type:varchar(36);index"`
	EnrollmentID string                  `gorm:"type:varchar(36);index"`
	Enrollment   *Enrollment             `gorm:"foreignKey:EnrollmentID"`
	Date         time.Time               `gorm:"type:date"`
	Status       models.AttendanceStatus `gorm:"type:varchar(20)"`
	Remarks      string
}

// CandidateID is the owner of the record through its enrollment.
func (r AttendanceRecord) CandidateID() string {
	if r.Enrollment == nil {
		return ""
	}
	return r.Enrollment.CandidateID
}
