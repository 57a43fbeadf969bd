package appealapimodels

import (
	"labor-mobility-backend/models"
	apimodels "labor-mobility-backend/models/api"
	"labor-mobility-backend/models/apperrors"
	dbmodels "labor-mobility-backend/models/db"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type AppealSubmitData struct {
	AttendanceRecordID  string                   `json:"attendance_record_id" validate:"required"`
	Reason              string                   `json:"reason"`
	RequestedStatus     *models.AttendanceStatus `json:"requested_status"`
	SupportingDocuments []string                 `json:"supporting_documents" validate:"omitempty,unique,dive,uuid"`
}

// Validate checks the payload shape only; reason length is a business rule checked by the handler.
func (a AppealSubmitData) Validate() error {
	if err := validate.Struct(a); err != nil {
		return validationError(err)
	}
	if a.RequestedStatus != nil && !a.RequestedStatus.IsValid() {
		return apperrors.Validation("unknown requested attendance status: %v", *a.RequestedStatus)
	}
	return nil
}

type AppealDecisionData struct {
	Action    models.AppealStatus      `json:"action" validate:"required,oneof=APPROVED REJECTED"`
	Comments  string                   `json:"comments"`
	NewStatus *models.AttendanceStatus `json:"new_status"`
}

func (a AppealDecisionData) Validate() error {
	if err := validate.Struct(a); err != nil {
		return validationError(err)
	}
	if a.NewStatus != nil && !a.NewStatus.IsValid() {
		return apperrors.Validation("unknown attendance status: %v", *a.NewStatus)
	}
	return nil
}

type AppealFilter struct {
	apimodels.Pagination
	Status      models.AppealStatus `json:"status"`
	CourseID    string              `json:"course_id"`
	CandidateID string              `json:"candidate_id"`
	DateFrom    *time.Time          `json:"date_from"`
	DateTo      *time.Time          `json:"date_to"`
}

func (f AppealFilter) Validate() error {
	if f.Status != "" && !f.Status.IsValid() {
		return apperrors.Validation("unknown appeal status: %v", f.Status)
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return apperrors.Validation("date_from must not be after date_to")
	}
	return nil
}

type AppealView struct {
	ID                  string                   `json:"id"`
	SpaceID             string                   `json:"space_id"`
	AttendanceRecordID  string                   `json:"attendance_record_id"`
	CandidateID         string                   `json:"candidate_id"`
	CandidateName       string                   `json:"candidate_name"`
	CourseID            string                   `json:"course_id"`
	AttendanceDate      time.Time                `json:"attendance_date"`
	Reason              string                   `json:"reason"`
	OriginalStatus      models.AttendanceStatus  `json:"original_status"`
	RequestedStatus     *models.AttendanceStatus `json:"requested_status"`
	SupportingDocuments []string                 `json:"supporting_documents"`
	Status              models.AppealStatus      `json:"status"`
	StatusName          string                   `json:"status_name"`
	ReviewedBy          *string                  `json:"reviewed_by"`
	ReviewedAt          *time.Time               `json:"reviewed_at"`
	ReviewerComments    string                   `json:"reviewer_comments"`
	CreatedAt           time.Time                `json:"created_at"`
}

func AppealConvert(rec dbmodels.AttendanceAppeal) AppealView {
	candidateName := ""
	if rec.Candidate != nil {
		candidateName = rec.Candidate.GetFullName()
	}
	docs := make([]string, 0, len(rec.SupportingDocuments))
	docs = append(docs, rec.SupportingDocuments...)
	return AppealView{
		ID:                  rec.ID,
		SpaceID:             rec.SpaceID,
		AttendanceRecordID:  rec.AttendanceRecordID,
		CandidateID:         rec.CandidateID,
		CandidateName:       candidateName,
		CourseID:            rec.CourseID,
		AttendanceDate:      rec.AttendanceDate,
		Reason:              rec.Reason,
		OriginalStatus:      rec.OriginalStatus,
		RequestedStatus:     rec.RequestedStatus,
		SupportingDocuments: docs,
		Status:              rec.Status,
		StatusName:          rec.Status.ToHuman(),
		ReviewedBy:          rec.ReviewedBy,
		ReviewedAt:          rec.ReviewedAt,
		ReviewerComments:    rec.ReviewerComments,
		CreatedAt:           rec.CreatedAt,
	}
}

type AppealStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Cancelled int64 `json:"cancelled"`
}

func NewAppealStats(counts map[models.AppealStatus]int64) AppealStats {
	stats := AppealStats{
		Pending:   counts[models.AppealStatusPending],
		Approved:  counts[models.AppealStatusApproved],
		Rejected:  counts[models.AppealStatusRejected],
		Cancelled: counts[models.AppealStatusCancelled],
	}
	stats.Total = stats.Pending + stats.Approved + stats.Rejected + stats.Cancelled
	return stats
}

type AppealList struct {
	Items    []AppealView `json:"items"`
	RowCount int64        `json:"row_count"`
	Stats    *AppealStats `json:"stats,omitempty"`
}

type AppealHistoryView struct {
	ID         string                 `json:"id"`
	AppealID   string                 `json:"appeal_id"`
	ActorID    string                 `json:"actor_id"`
	ActorRole  models.UserRole        `json:"actor_role"`
	FromStatus models.AppealStatus    `json:"from_status"`
	ToStatus   models.AppealStatus    `json:"to_status"`
	Comment    string                 `json:"comment"`
	Changes    dbmodels.EntityChanges `json:"changes"`
	CreatedAt  time.Time              `json:"created_at"`
}

func AppealHistoryConvert(rec dbmodels.AttendanceAppealHistory) AppealHistoryView {
	return AppealHistoryView{
		ID:         rec.ID,
		AppealID:   rec.AppealID,
		ActorID:    rec.ActorID,
		ActorRole:  rec.ActorRole,
		FromStatus: rec.FromStatus,
		ToStatus:   rec.ToStatus,
		Comment:    rec.Comment,
		Changes:    rec.Changes,
		CreatedAt:  rec.CreatedAt,
	}
}

func validationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Validation("%v", err)
	}
	msgs := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		msgs = append(msgs, fieldMessage(fieldErr))
	}
	return apperrors.Validation("%s", strings.Join(msgs, "; "))
}

func fieldMessage(fieldErr validator.FieldError) string {
	field := fieldErr.Field()
	switch fieldErr.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return field + " must be one of: " + fieldErr.Param()
	case "uuid":
		return field + " must reference a document id"
	case "unique":
		return field + " must not contain duplicates"
	default:
		return field + " is invalid"
	}
}
