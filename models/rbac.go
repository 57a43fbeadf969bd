package models

type RbacFunc func(spaceID, userID string, role UserRole, path string) bool

type Module string

const (
	AppealModule     Module = "APPEAL"
	PermissionModule Module = "PERMISSION"
)

type Permission string

const (
	CreatePermission   Permission = "CREATE"
	ViewPermission     Permission = "VIEW"
	CancelPermission   Permission = "CANCEL"
	ReviewPermission   Permission = "REVIEW"
	OverridePermission Permission = "OVERRIDE"
	ExportPermission   Permission = "EXPORT"
)
