package models

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppealStatus(t *testing.T) {
	t.Run(`rank orders pending first`, func(t *testing.T) {
		statuses := []AppealStatus{AppealStatusCancelled, AppealStatusRejected, AppealStatusPending, AppealStatusApproved}
		sort.Slice(statuses, func(i, j int) bool {
			return statuses[i].Rank() < statuses[j].Rank()
		})
		require.Equal(t, AppealStatusesByRank(), statuses)
		require.Equal(t, 4, AppealStatus("UNKNOWN").Rank())
	})

	t.Run(`active and decision`, func(t *testing.T) {
		require.True(t, AppealStatusPending.IsActive())
		require.True(t, AppealStatusApproved.IsActive())
		require.False(t, AppealStatusRejected.IsActive())
		require.False(t, AppealStatusCancelled.IsActive())
		require.ElementsMatch(t, []AppealStatus{AppealStatusPending, AppealStatusApproved}, ActiveAppealStatuses())

		require.True(t, AppealStatusApproved.IsDecision())
		require.True(t, AppealStatusRejected.IsDecision())
		require.False(t, AppealStatusPending.IsDecision())
		require.False(t, AppealStatusCancelled.IsDecision())
	})

	t.Run(`validity and names`, func(t *testing.T) {
		require.True(t, AppealStatusCancelled.IsValid())
		require.False(t, AppealStatus("pending").IsValid())
		require.Equal(t, "Pending", AppealStatusPending.ToHuman())
		require.Equal(t, "OTHER", AppealStatus("OTHER").ToHuman())
	})
}

func TestAttendanceStatus(t *testing.T) {
	require.True(t, AttendanceExcused.IsValid())
	require.False(t, AttendanceStatus("SICK").IsValid())
	require.Equal(t, "Absent", AttendanceAbsent.ToHuman())
	require.Equal(t, AttendanceExcused, DefaultApprovedAttendance)
}
