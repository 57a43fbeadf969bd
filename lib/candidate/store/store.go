package candidatestore

import (
	dbmodels "labor-mobility-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	GetByUserID(userID string) (rec *dbmodels.Candidate, err error)
	GetByID(id string) (rec *dbmodels.Candidate, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByUserID(userID string) (*dbmodels.Candidate, error) {
	return i.first(i.db.Where("user_id = ?", userID))
}

func (i impl) GetByID(id string) (*dbmodels.Candidate, error) {
	return i.first(i.db.Where("id = ?", id))
}

func (i impl) first(tx *gorm.DB) (*dbmodels.Candidate, error) {
	rec := dbmodels.Candidate{}
	err := tx.First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
