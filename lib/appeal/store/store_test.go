package appealstore

import (
	"labor-mobility-backend/models"
	appealapimodels "labor-mobility-backend/models/api/appeal"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockStore(t *testing.T) (Provider, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.Nil(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.Nil(t, err)
	return NewInstance(gormDB), mock
}

func TestUpdateStatus(t *testing.T) {
	updMap := map[string]interface{}{"status": models.AppealStatusApproved}

	t.Run(`expected status matches`, func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE "attendance_appeals" SET .* WHERE id = .* AND status = `).
			WillReturnResult(sqlmock.NewResult(0, 1))
		require.Nil(t, store.UpdateStatus("appeal-1", models.AppealStatusPending, updMap))
		require.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run(`status changed concurrently`, func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE "attendance_appeals" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		err := store.UpdateStatus("appeal-1", models.AppealStatusPending, updMap)
		require.ErrorIs(t, err, ErrStaleStatus)
		require.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run(`active appeal index violation`, func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE "attendance_appeals" SET`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uidx_attendance_appeals_active"})
		err := store.UpdateStatus("appeal-1", models.AppealStatusCancelled, updMap)
		require.ErrorIs(t, err, ErrActiveAppealExists)
		require.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run(`empty update does nothing`, func(t *testing.T) {
		store, mock := newMockStore(t)
		require.Nil(t, store.UpdateStatus("appeal-1", models.AppealStatusPending, nil))
		require.Nil(t, mock.ExpectationsWereMet())
	})
}

func TestList(t *testing.T) {
	t.Run(`status rank order`, func(t *testing.T) {
		require.Equal(t, "CASE status WHEN 'PENDING' THEN 0 WHEN 'APPROVED' THEN 1 WHEN 'REJECTED' THEN 2 WHEN 'CANCELLED' THEN 3 ELSE 4 END", statusRankOrder)
	})

	t.Run(`list is scoped and ordered by rank`, func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT \* FROM "attendance_appeals" WHERE space_id = .* AND course_id IN .* AND status = .*` +
			regexp.QuoteMeta("ORDER BY CASE status WHEN 'PENDING' THEN 0") + `.*` + regexp.QuoteMeta("created_at DESC")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}))
		list, err := store.List(Scope{SpaceID: "space-1", CourseIDs: []string{"course-1"}}, appealapimodels.AppealFilter{Status: models.AppealStatusPending})
		require.Nil(t, err)
		require.Empty(t, list)
		require.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run(`count by status`, func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT status, count\(\*\) as total FROM "attendance_appeals" WHERE space_id = .* GROUP BY .*status`).
			WillReturnRows(sqlmock.NewRows([]string{"status", "total"}).
				AddRow("PENDING", 2).
				AddRow("REJECTED", 1))
		counts, err := store.CountByStatus(Scope{SpaceID: "space-1"}, appealapimodels.AppealFilter{})
		require.Nil(t, err)
		require.EqualValues(t, 2, counts[models.AppealStatusPending])
		require.EqualValues(t, 1, counts[models.AppealStatusRejected])
		require.EqualValues(t, 0, counts[models.AppealStatusApproved])
		require.Nil(t, mock.ExpectationsWereMet())
	})
}
