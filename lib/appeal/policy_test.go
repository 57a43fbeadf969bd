package appealhandler

import (
	"labor-mobility-backend/models"
	appealapimodels "labor-mobility-backend/models/api/appeal"
	"labor-mobility-backend/models/apperrors"
	dbmodels "labor-mobility-backend/models/db"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPredicates(t *testing.T) {
	appeal := dbmodels.AttendanceAppeal{
		BaseSpaceModel: dbmodels.BaseSpaceModel{SpaceID: testSpace},
		CandidateID:    "cand-1",
		CourseID:       "course-1",
	}

	t.Run(`candidateOwns`, func(t *testing.T) {
		require.True(t, candidateOwns(appeal, "cand-1"))
		require.False(t, candidateOwns(appeal, "cand-2"))
		require.False(t, candidateOwns(dbmodels.AttendanceAppeal{}, ""))
	})

	t.Run(`trainerScoped`, func(t *testing.T) {
		require.True(t, trainerScoped([]string{"trainer-2", "trainer-1"}, "trainer-1"))
		require.False(t, trainerScoped([]string{"trainer-2"}, "trainer-1"))
		require.False(t, trainerScoped(nil, "trainer-1"))
		require.False(t, trainerScoped([]string{""}, ""))
	})

	t.Run(`adminScoped`, func(t *testing.T) {
		require.True(t, adminScoped(appeal, testSpace))
		require.False(t, adminScoped(appeal, otherSpace))
		require.False(t, adminScoped(dbmodels.AttendanceAppeal{}, ""))
	})
}

func TestPolicyScope(t *testing.T) {
	m := newMemDB()
	filter := appealapimodels.AppealFilter{
		Status:      models.AppealStatusPending,
		CourseID:    "course-1",
		CandidateID: "cand-2",
	}

	t.Run(`candidate keeps status only`, func(t *testing.T) {
		policy := candidatePolicy{userID: "user-cand-1", candidate: m.candidates["cand-1"]}
		query, ok, err := policy.Scope(filter)
		require.Nil(t, err)
		require.True(t, ok)
		require.Equal(t, "cand-1", query.scope.CandidateID)
		require.Equal(t, testSpace, query.scope.SpaceID)
		require.Equal(t, models.AppealStatusPending, query.filter.Status)
		require.Empty(t, query.filter.CourseID)
		require.Empty(t, query.filter.CandidateID)
		require.False(t, query.withStats)
	})

	t.Run(`trainer is limited to taught courses`, func(t *testing.T) {
		policy := trainerPolicy{trainerID: "trainer-1", spaceID: testSpace, courses: memCourseStore{db: m}}
		query, ok, err := policy.Scope(filter)
		require.Nil(t, err)
		require.True(t, ok)
		require.Equal(t, []string{"course-1"}, query.scope.CourseIDs)
		require.Equal(t, "cand-2", query.filter.CandidateID)

		filter.CourseID = "course-2"
		_, _, err = policy.Scope(filter)
		require.True(t, apperrors.Is(err, apperrors.KindForbidden))

		idle := trainerPolicy{trainerID: "trainer-3", spaceID: testSpace, courses: memCourseStore{db: m}}
		_, ok, err = idle.Scope(appealapimodels.AppealFilter{})
		require.Nil(t, err)
		require.False(t, ok)
	})

	t.Run(`admin gets stats`, func(t *testing.T) {
		policy := adminPolicy{adminID: "admin-1", tenantID: testSpace}
		query, ok, err := policy.Scope(filter)
		require.Nil(t, err)
		require.True(t, ok)
		require.True(t, query.withStats)
		require.Nil(t, query.scope.CourseIDs)
		require.Equal(t, testSpace, query.scope.SpaceID)
	})
}
