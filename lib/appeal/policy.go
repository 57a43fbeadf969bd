package appealhandler

import (
	appealstore "labor-mobility-backend/lib/appeal/store"
	coursestore "labor-mobility-backend/lib/course/store"
	"labor-mobility-backend/models"
	appealapimodels "labor-mobility-backend/models/api/appeal"
	"labor-mobility-backend/models/apperrors"
	dbmodels "labor-mobility-backend/models/db"
	"slices"
)

// Actor is the authenticated caller of an appeal operation.
type Actor struct {
	UserID  string
	SpaceID string
	Role    models.UserRole
}

// Guard is the capability set every actor policy implements.
type Guard interface {
	Role() models.UserRole
	ActorID() string
	// Authorize returns a Forbidden error when the actor may not act on the appeal.
	Authorize(appeal dbmodels.AttendanceAppeal) error
	// Scope narrows a list request to the actor's visibility; ok is false when nothing is visible.
	Scope(filter appealapimodels.AppealFilter) (query listQuery, ok bool, err error)
}

type listQuery struct {
	scope     appealstore.Scope
	filter    appealapimodels.AppealFilter
	withStats bool
}

func candidateOwns(appeal dbmodels.AttendanceAppeal, candidateID string) bool {
	return candidateID != "" && appeal.CandidateID == candidateID
}

func trainerScoped(courseTrainerIDs []string, trainerID string) bool {
	return trainerID != "" && slices.Contains(courseTrainerIDs, trainerID)
}

func adminScoped(appeal dbmodels.AttendanceAppeal, adminTenantID string) bool {
	return adminTenantID != "" && appeal.SpaceID == adminTenantID
}

type candidatePolicy struct {
	userID    string
	candidate dbmodels.Candidate
}

func (p candidatePolicy) Role() models.UserRole {
	return models.CandidateRole
}

func (p candidatePolicy) ActorID() string {
	return p.userID
}

func (p candidatePolicy) Authorize(appeal dbmodels.AttendanceAppeal) error {
	if !candidateOwns(appeal, p.candidate.ID) {
		return apperrors.Forbidden("appeal belongs to another candidate")
	}
	return nil
}

// Candidates filter their own appeals by status only.
func (p candidatePolicy) Scope(filter appealapimodels.AppealFilter) (listQuery, bool, error) {
	return listQuery{
		scope: appealstore.Scope{
			SpaceID:     p.candidate.SpaceID,
			CandidateID: p.candidate.ID,
		},
		filter: appealapimodels.AppealFilter{
			Pagination: filter.Pagination,
			Status:     filter.Status,
		},
	}, true, nil
}

type trainerPolicy struct {
	trainerID string
	spaceID   string
	courses   coursestore.Provider
}

func (p trainerPolicy) Role() models.UserRole {
	return models.TrainerRole
}

func (p trainerPolicy) ActorID() string {
	return p.trainerID
}

func (p trainerPolicy) Authorize(appeal dbmodels.AttendanceAppeal) error {
	trainerIDs, err := p.courses.GetTrainerIDs(appeal.CourseID)
	if err != nil {
		return apperrors.Internal(err, "failed to load course trainers")
	}
	if !trainerScoped(trainerIDs, p.trainerID) {
		return apperrors.Forbidden("appeal belongs to a course the trainer does not teach")
	}
	return nil
}

func (p trainerPolicy) Scope(filter appealapimodels.AppealFilter) (listQuery, bool, error) {
	courseIDs, err := p.courses.ListTrainerCourseIDs(p.spaceID, p.trainerID)
	if err != nil {
		return listQuery{}, false, apperrors.Internal(err, "failed to load trainer courses")
	}
	if len(courseIDs) == 0 {
		return listQuery{}, false, nil
	}
	if filter.CourseID != "" && !slices.Contains(courseIDs, filter.CourseID) {
		return listQuery{}, false, apperrors.Forbidden("course %v is not taught by the trainer", filter.CourseID)
	}
	return listQuery{
		scope: appealstore.Scope{
			SpaceID:   p.spaceID,
			CourseIDs: courseIDs,
		},
		filter: filter,
	}, true, nil
}

type adminPolicy struct {
	adminID  string
	tenantID string
}

func (p adminPolicy) Role() models.UserRole {
	return models.TenantAdminRole
}

func (p adminPolicy) ActorID() string {
	return p.adminID
}

func (p adminPolicy) Authorize(appeal dbmodels.AttendanceAppeal) error {
	if !adminScoped(appeal, p.tenantID) {
		return apperrors.Forbidden("appeal belongs to another tenant")
	}
	return nil
}

func (p adminPolicy) Scope(filter appealapimodels.AppealFilter) (listQuery, bool, error) {
	return listQuery{
		scope: appealstore.Scope{
			SpaceID: p.tenantID,
		},
		filter:    filter,
		withStats: true,
	}, true, nil
}
