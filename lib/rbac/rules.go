package rbac

import (
	"labor-mobility-backend/models"

	log "github.com/sirupsen/logrus"
)

var (
	CandidateRoleSet = []models.UserRole{models.CandidateRole}
	TrainerRoleSet   = []models.UserRole{models.TrainerRole}
	AdminRoleSet     = []models.UserRole{models.TenantAdminRole}
	AllRoles         = []models.UserRole{models.CandidateRole, models.TrainerRole, models.TenantAdminRole}
)

type rule struct {
	module     models.Module
	permission models.Permission
	roles      []models.UserRole
	pattern    string
}

func (i *impl) initRules() {
	rules := append(i.candidateAppealRules(), i.trainerAppealRules()...)
	rules = append(rules, i.adminAppealRules()...)
	rules = append(rules, rule{models.PermissionModule, models.ViewPermission, AllRoles, "/api/v1/permissions [get]"})
	for _, r := range rules {
		if err := i.RegisterRule(r.module, r.permission, r.roles, r.pattern, nil); err != nil {
			log.WithError(err).WithField("pattern", r.pattern).Fatal("rbac rule registration failed")
		}
	}
}

func (i *impl) candidateAppealRules() []rule {
	return []rule{
		{models.AppealModule, models.CreatePermission, CandidateRoleSet, "/api/v1/candidate/appeals [post]"},
		{models.AppealModule, models.ViewPermission, CandidateRoleSet, "/api/v1/candidate/appeals/list [post]"},
		{models.AppealModule, models.ViewPermission, CandidateRoleSet, "/api/v1/candidate/appeals/{id} [get]"},
		{models.AppealModule, models.ViewPermission, CandidateRoleSet, "/api/v1/candidate/appeals/{id}/history [get]"},
		{models.AppealModule, models.ViewPermission, CandidateRoleSet, "/api/v1/candidate/appeals/{id}/decision [get]"},
		{models.AppealModule, models.CancelPermission, CandidateRoleSet, "/api/v1/candidate/appeals/{id}/cancel [put]"},
	}
}

func (i *impl) trainerAppealRules() []rule {
	return []rule{
		{models.AppealModule, models.ViewPermission, TrainerRoleSet, "/api/v1/trainer/appeals/list [post]"},
		{models.AppealModule, models.ViewPermission, TrainerRoleSet, "/api/v1/trainer/appeals/{id} [get]"},
		{models.AppealModule, models.ReviewPermission, TrainerRoleSet, "/api/v1/trainer/appeals/{id}/review [put]"},
	}
}

func (i *impl) adminAppealRules() []rule {
	return []rule{
		{models.AppealModule, models.ViewPermission, AdminRoleSet, "/api/v1/admin/appeals/list [post]"},
		{models.AppealModule, models.ViewPermission, AdminRoleSet, "/api/v1/admin/appeals/{id} [get]"},
		{models.AppealModule, models.ViewPermission, AdminRoleSet, "/api/v1/admin/appeals/{id}/history [get]"},
		{models.AppealModule, models.ViewPermission, AdminRoleSet, "/api/v1/admin/appeals/{id}/decision [get]"},
		{models.AppealModule, models.OverridePermission, AdminRoleSet, "/api/v1/admin/appeals/{id}/override [put]"},
		{models.AppealModule, models.ExportPermission, AdminRoleSet, "/api/v1/admin/appeals/export [post]"},
	}
}
