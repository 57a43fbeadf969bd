package middleware

import (
	"labor-mobility-backend/lib/rbac"
	apimodels "labor-mobility-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

const rbacForbidden = "RBAC_FORBIDDEN"

func RbacMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID := GetUserID(ctx)
		if userID == "" {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(rbacForbidden))
		}
		spaceID := GetUserSpace(ctx)

		userRole := GetSpaceRole(ctx)
		if userRole == "" {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(rbacForbidden))
		}

		// routes without a rule stay open to any authenticated role
		handler, found := rbac.Instance.GetRuleFunc(ctx.Method(), ctx.Path())
		if !found {
			return ctx.Next()
		}

		if !handler(spaceID, userID, userRole, ctx.Path()) {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(rbacForbidden))
		}

		return ctx.Next()
	}
}
