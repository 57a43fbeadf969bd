package coursestore

import (
	dbmodels "labor-mobility-backend/models/db"

	"gorm.io/gorm"
)

type Provider interface {
	GetTrainerIDs(courseID string) ([]string, error)
	ListTrainerCourseIDs(spaceID, trainerID string) ([]string, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetTrainerIDs(courseID string) ([]string, error) {
	ids := []string{}
	err := i.db.
		Model(&dbmodels.CourseTrainer{}).
		Where("course_id = ?", courseID).
		Pluck("trainer_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (i impl) ListTrainerCourseIDs(spaceID, trainerID string) ([]string, error) {
	ids := []string{}
	err := i.db.
		Model(&dbmodels.CourseTrainer{}).
		Joins("JOIN courses ON courses.id = course_trainers.course_id").
		Where("courses.space_id = ?", spaceID).
		Where("course_trainers.trainer_id = ?", trainerID).
		Pluck("course_trainers.course_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
