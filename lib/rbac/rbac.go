package rbac

import (
	"labor-mobility-backend/models"
	"slices"
)

type Provider interface {
	GetRuleFunc(method, path string) (models.RbacFunc, bool)
	RegisterRule(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string, handler models.RbacFunc) error
	GetPermissions(role models.UserRole) map[models.Module][]models.Permission
}

var Instance Provider

func NewHandler() {
	i := &impl{
		routes:      newRouteTable(),
		permissions: map[models.UserRole]map[models.Module][]models.Permission{},
	}
	Instance = i
	i.initRules()
}

type impl struct {
	routes      *routeTable
	permissions map[models.UserRole]map[models.Module][]models.Permission
}

func (i *impl) GetRuleFunc(method, path string) (models.RbacFunc, bool) {
	return i.routes.match(method, path)
}

// RegisterRule binds a swagger router line to handler, AllowByRoleFunc(roles) when nil,
// and grants permission on module to roles in the map served to the frontend.
func (i *impl) RegisterRule(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string, handler models.RbacFunc) error {
	if handler == nil {
		handler = AllowByRoleFunc(roles)
	}
	if err := i.routes.add(swaggerPattern, handler); err != nil {
		return err
	}
	for _, role := range roles {
		modules, ok := i.permissions[role]
		if !ok {
			modules = map[models.Module][]models.Permission{}
			i.permissions[role] = modules
		}
		if !slices.Contains(modules[module], permission) {
			modules[module] = append(modules[module], permission)
		}
	}
	return nil
}

func (i *impl) GetPermissions(role models.UserRole) map[models.Module][]models.Permission {
	return i.permissions[role]
}

func AllowFunc() models.RbacFunc {
	return func(spaceID, userID string, role models.UserRole, uri string) bool {
		return true
	}
}

func AllowByRoleFunc(accessRoles []models.UserRole) models.RbacFunc {
	return func(spaceID, userID string, role models.UserRole, uri string) bool {
		return slices.Contains(accessRoles, role)
	}
}
