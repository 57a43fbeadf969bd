package dbmodels

import (
	"labor-mobility-backend/models"
	"time"

	"github.com/lib/pq"
)

type AttendanceAppeal struct {
	BaseSpaceModel
	AttendanceRecordID  string            `gorm:"type:varchar(36);index"`
	AttendanceRecord    *AttendanceRecord `gorm:"foreignKey:AttendanceRecordID"`
	CandidateID         string            `gorm:"type:varchar(36);index"`
	Candidate           *Candidate        `gorm:"foreignKey:CandidateID"`
	CourseID            string            `gorm:"type:varchar(36);index"`
	AttendanceDate      time.Time         `gorm:"type:date"`
	Reason              string
	OriginalStatus      models.AttendanceStatus  `gorm:"type:varchar(20)"`
	RequestedStatus     *models.AttendanceStatus `gorm:"type:varchar(20)"`
	SupportingDocuments pq.StringArray           `gorm:"type:text[]"`
	Status              models.AppealStatus      `gorm:"type:varchar(20);index"`
	ReviewedBy          *string                  `gorm:"type:varchar(36)"`
	ReviewedAt          *time.Time
	ReviewerComments    string
}

type AttendanceAppealHistory struct {
	BaseSpaceModel
	AppealID   string              `gorm:"type:varchar(36);index"`
	ActorID    string              `gorm:"type:varchar(36)"`
	ActorRole  models.UserRole     `gorm:"type:varchar(50)"`
	FromStatus models.AppealStatus `gorm:"type:varchar(20)"`
	ToStatus   models.AppealStatus `gorm:"type:varchar(20)"`
	Comment    string
	Changes    EntityChanges `gorm:"type:jsonb"`
}
