package attendancestore

import (
	dbmodels "labor-mobility-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	GetByID(id string) (rec *dbmodels.AttendanceRecord, err error)
	GetByIDForUpdate(id string) (rec *dbmodels.AttendanceRecord, err error)
	Update(id string, updMap map[string]interface{}) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByID(id string) (*dbmodels.AttendanceRecord, error) {
	rec := dbmodels.AttendanceRecord{}
	err := i.db.
		Where("id = ?", id).
		Preload("Enrollment").
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

// GetByIDForUpdate locks the row until the surrounding transaction ends.
func (i impl) GetByIDForUpdate(id string) (*dbmodels.AttendanceRecord, error) {
	rec := dbmodels.AttendanceRecord{}
	err := i.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.AttendanceRecord{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("attendance record not found")
	}
	return nil
}
