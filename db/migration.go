package db

import (
	"fmt"
	"labor-mobility-backend/models"
	dbmodels "labor-mobility-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("running migrations")
	if err := DB.AutoMigrate(&dbmodels.Candidate{}); err != nil {
		return errors.Wrap(err, "migrate Candidate")
	}
	if err := DB.AutoMigrate(&dbmodels.Course{}, &dbmodels.CourseTrainer{}); err != nil {
		return errors.Wrap(err, "migrate Course")
	}
	if err := DB.AutoMigrate(&dbmodels.Enrollment{}); err != nil {
		return errors.Wrap(err, "migrate Enrollment")
	}
	if err := DB.AutoMigrate(&dbmodels.AttendanceRecord{}); err != nil {
		return errors.Wrap(err, "migrate AttendanceRecord")
	}
	if err := DB.AutoMigrate(&dbmodels.AttendanceAppeal{}); err != nil {
		return errors.Wrap(err, "migrate AttendanceAppeal")
	}
	if err := DB.AutoMigrate(&dbmodels.AttendanceAppealHistory{}); err != nil {
		return errors.Wrap(err, "migrate AttendanceAppealHistory")
	}
	if err := DB.Exec(activeAppealIndexDDL()).Error; err != nil {
		return errors.Wrap(err, "create active appeal index")
	}
	log.Info("migrations finished")
	return nil
}

// one PENDING/APPROVED appeal per attendance record
func activeAppealIndexDDL() string {
	statuses := make([]string, 0, len(models.ActiveAppealStatuses()))
	for _, status := range models.ActiveAppealStatuses() {
		statuses = append(statuses, fmt.Sprintf("'%s'", status))
	}
	return fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS uidx_attendance_appeals_active ON attendance_appeals (attendance_record_id) WHERE status IN (%s);",
		strings.Join(statuses, ", "))
}
