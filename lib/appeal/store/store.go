package appealstore

import (
	"fmt"
	"labor-mobility-backend/models"
	appealapimodels "labor-mobility-backend/models/api/appeal"
	dbmodels "labor-mobility-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrStaleStatus means the appeal left the expected status before the update landed.
	ErrStaleStatus = errors.New("appeal status changed concurrently")
	// ErrActiveAppealExists is raised by the partial unique index on active appeals.
	ErrActiveAppealExists = errors.New("active appeal already exists for attendance record")
)

// Scope limits list queries to what an actor may see.
type Scope struct {
	SpaceID     string
	CandidateID string
	CourseIDs   []string // nil means no course restriction
	Unpaged     bool
}

type Provider interface {
	Create(rec dbmodels.AttendanceAppeal) (id string, err error)
	GetByID(id string) (rec *dbmodels.AttendanceAppeal, err error)
	GetActiveByAttendance(attendanceRecordID string) (rec *dbmodels.AttendanceAppeal, err error)
	UpdateStatus(id string, expected models.AppealStatus, updMap map[string]interface{}) error
	List(scope Scope, filter appealapimodels.AppealFilter) (list []dbmodels.AttendanceAppeal, err error)
	ListCount(scope Scope, filter appealapimodels.AppealFilter) (int64, error)
	CountByStatus(scope Scope, filter appealapimodels.AppealFilter) (map[models.AppealStatus]int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

var statusRankOrder = buildStatusRankOrder()

func buildStatusRankOrder() string {
	var sb strings.Builder
	sb.WriteString("CASE status")
	statuses := models.AppealStatusesByRank()
	for _, status := range statuses {
		sb.WriteString(fmt.Sprintf(" WHEN '%s' THEN %d", status, status.Rank()))
	}
	sb.WriteString(fmt.Sprintf(" ELSE %d END", len(statuses)))
	return sb.String()
}

func (i impl) Create(rec dbmodels.AttendanceAppeal) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Create(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", ErrActiveAppealExists
		}
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.AttendanceAppeal, error) {
	rec := dbmodels.AttendanceAppeal{}
	err := i.db.
		Where("id = ?", id).
		Preload("Candidate").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetActiveByAttendance(attendanceRecordID string) (*dbmodels.AttendanceAppeal, error) {
	rec := dbmodels.AttendanceAppeal{}
	err := i.db.
		Where("attendance_record_id = ?", attendanceRecordID).
		Where("status IN ?", models.ActiveAppealStatuses()).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// UpdateStatus applies updMap only while the appeal still has the expected status.
func (i impl) UpdateStatus(id string, expected models.AppealStatus, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.AttendanceAppeal{}).
		Where("id = ?", id).
		Where("status = ?", expected).
		Updates(updMap)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrDuplicatedKey) {
			return ErrActiveAppealExists
		}
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (i impl) List(scope Scope, filter appealapimodels.AppealFilter) (list []dbmodels.AttendanceAppeal, err error) {
	list = []dbmodels.AttendanceAppeal{}
	tx := i.filter(i.db.Model(&dbmodels.AttendanceAppeal{}), scope, filter)
	if !scope.Unpaged {
		page, limit := filter.GetPage()
		tx = tx.
			Offset((page - 1) * limit).
			Limit(limit)
	}
	err = tx.
		Order(statusRankOrder).
		Order("created_at DESC").
		Preload("Candidate").
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(scope Scope, filter appealapimodels.AppealFilter) (int64, error) {
	var rowCount int64
	err := i.filter(i.db.Model(&dbmodels.AttendanceAppeal{}), scope, filter).
		Count(&rowCount).
		Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}

func (i impl) CountByStatus(scope Scope, filter appealapimodels.AppealFilter) (map[models.AppealStatus]int64, error) {
	type statusCount struct {
		Status models.AppealStatus
		Total  int64
	}
	rows := []statusCount{}
	err := i.filter(i.db.Model(&dbmodels.AttendanceAppeal{}), scope, filter).
		Select("status, count(*) as total").
		Group("status").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	result := make(map[models.AppealStatus]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Total
	}
	return result, nil
}

func (i impl) filter(tx *gorm.DB, scope Scope, filter appealapimodels.AppealFilter) *gorm.DB {
	tx = tx.Where("space_id = ?", scope.SpaceID)
	if scope.CandidateID != "" {
		tx = tx.Where("candidate_id = ?", scope.CandidateID)
	}
	if scope.CourseIDs != nil {
		tx = tx.Where("course_id IN ?", scope.CourseIDs)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.CourseID != "" {
		tx = tx.Where("course_id = ?", filter.CourseID)
	}
	if filter.CandidateID != "" {
		tx = tx.Where("candidate_id = ?", filter.CandidateID)
	}
	if filter.DateFrom != nil {
		tx = tx.Where("attendance_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		tx = tx.Where("attendance_date <= ?", *filter.DateTo)
	}
	return tx
}
