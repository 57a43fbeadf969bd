package appealhandler

import (
	"labor-mobility-backend/models"
	"labor-mobility-backend/models/apperrors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFinalAttendanceStatus(t *testing.T) {
	present := models.AttendancePresent
	late := models.AttendanceLate
	unknown := models.AttendanceStatus("SICK")

	require.Equal(t, models.AttendancePresent, finalAttendanceStatus(&present, &late))
	require.Equal(t, models.AttendanceLate, finalAttendanceStatus(nil, &late))
	require.Equal(t, models.AttendanceExcused, finalAttendanceStatus(nil, nil))
	require.Equal(t, models.AttendanceLate, finalAttendanceStatus(&unknown, &late))
}

func TestRemarks(t *testing.T) {
	decidedAt := time.Date(2026, 9, 3, 15, 0, 0, 0, time.UTC)

	t.Run(`note names the previous status`, func(t *testing.T) {
		note := remarksNote(models.AttendanceAbsent, "", decidedAt)
		require.Equal(t, "Appeal approved on 2026-09-03. Previous status: ABSENT.", note)
		note = remarksNote(models.AttendanceLate, "  bus strike  ", decidedAt)
		require.Equal(t, "Appeal approved on 2026-09-03. Previous status: LATE. Comments: bus strike", note)
	})

	t.Run(`note is appended`, func(t *testing.T) {
		require.Equal(t, "note", appendRemarks("  ", "note"))
		require.Equal(t, "came late\nnote", appendRemarks("came late", "note"))
	})
}

func TestApplyCascade(t *testing.T) {
	decidedAt := time.Date(2026, 9, 3, 15, 0, 0, 0, time.UTC)

	t.Run(`record is updated`, func(t *testing.T) {
		m := newMemDB()
		previous, err := applyCascade(memAttendanceStore{db: m}, "rec-1", models.AttendanceExcused, "ok", decidedAt)
		require.Nil(t, err)
		require.Equal(t, models.AttendanceAbsent, previous)
		rec := m.attendance("rec-1")
		require.Equal(t, models.AttendanceExcused, rec.Status)
		require.Equal(t, "Appeal approved on 2026-09-03. Previous status: ABSENT. Comments: ok", rec.Remarks)
	})

	t.Run(`missing record`, func(t *testing.T) {
		m := newMemDB()
		_, err := applyCascade(memAttendanceStore{db: m}, "rec-missing", models.AttendanceExcused, "", decidedAt)
		require.True(t, apperrors.Is(err, apperrors.KindNotFound))
	})
}
