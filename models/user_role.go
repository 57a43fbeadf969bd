package models

type UserRole string

const (
	CandidateRole   UserRole = "CANDIDATE"
	TrainerRole     UserRole = "TRAINER"
	TenantAdminRole UserRole = "TENANT_ADMIN"
)

var roleHumanName = map[UserRole]string{
	CandidateRole:   "Candidate",
	TrainerRole:     "Trainer",
	TenantAdminRole: "Administrator",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsTenantAdmin() bool {
	return r == TenantAdminRole
}

const SystemUser = "System"
