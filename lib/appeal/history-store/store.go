package appealhistorystore

import (
	dbmodels "labor-mobility-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.AttendanceAppealHistory) (id string, err error)
	List(spaceID, appealID string) (list []dbmodels.AttendanceAppealHistory, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.AttendanceAppealHistory) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) List(spaceID, appealID string) (list []dbmodels.AttendanceAppealHistory, err error) {
	list = []dbmodels.AttendanceAppealHistory{}
	tx := i.db.
		Where("space_id = ?", spaceID).
		Where("appeal_id = ?", appealID).
		Order("created_at ASC")
	err = tx.Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}
