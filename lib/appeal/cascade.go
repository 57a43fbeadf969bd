package appealhandler

import (
	"fmt"
	attendancestore "labor-mobility-backend/lib/attendance/store"
	"labor-mobility-backend/models"
	"labor-mobility-backend/models/apperrors"
	"strings"
	"time"
)

// finalAttendanceStatus picks the reviewer's status, then the candidate's request, then the default.
func finalAttendanceStatus(newStatus, requested *models.AttendanceStatus) models.AttendanceStatus {
	if newStatus != nil && newStatus.IsValid() {
		return *newStatus
	}
	if requested != nil && requested.IsValid() {
		return *requested
	}
	return models.DefaultApprovedAttendance
}

func remarksNote(previous models.AttendanceStatus, comments string, decidedAt time.Time) string {
	note := fmt.Sprintf("Appeal approved on %s. Previous status: %s.", decidedAt.Format("2006-01-02"), previous)
	if comments = strings.TrimSpace(comments); comments != "" {
		note += " Comments: " + comments
	}
	return note
}

func appendRemarks(remarks, note string) string {
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		return note
	}
	return remarks + "\n" + note
}

// applyCascade writes an approved appeal back to its attendance record.
// The record is re-read under a row lock, so the note names the status it actually replaces.
func applyCascade(store attendancestore.Provider, recordID string, final models.AttendanceStatus, comments string, decidedAt time.Time) (previous models.AttendanceStatus, err error) {
	rec, err := store.GetByIDForUpdate(recordID)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", apperrors.NotFound("attendance record not found")
	}
	updMap := map[string]interface{}{
		"status":  final,
		"remarks": appendRemarks(rec.Remarks, remarksNote(rec.Status, comments, decidedAt)),
	}
	if err = store.Update(recordID, updMap); err != nil {
		return "", err
	}
	return rec.Status, nil
}
