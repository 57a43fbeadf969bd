package middleware

import (
	authutils "labor-mobility-backend/lib/utils/auth-utils"
	"labor-mobility-backend/models"
	apimodels "labor-mobility-backend/models/api"
	"slices"

	"github.com/gofiber/fiber/v2"
)

// RoleRequired lets through only tokens carrying one of roles.
func RoleRequired(roles ...models.UserRole) fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if !slices.Contains(roles, GetSpaceRole(ctx)) {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("operation is not available"))
		}
		return ctx.Next()
	}
}

func GetUserSpace(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if space, ok := claims["space"].(string); ok {
		return space
	}
	return ""
}

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}

func GetSpaceRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.UserRole(stringRole)
		}
	}
	return ""
}
