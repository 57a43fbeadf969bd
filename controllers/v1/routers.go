package apiv1

import (
	"labor-mobility-backend/middleware"
	"labor-mobility-backend/models"

	"github.com/gofiber/fiber/v2"
)

// InitAppealRouters mounts the role scoped appeal APIs under /candidate, /trainer and /admin.
func InitAppealRouters(apiV1 *fiber.App) {
	//candidate
	candidate := fiber.New()
	apiV1.Mount("/candidate", candidate)
	candidate.Use(middleware.AuthorizationRequired(), middleware.RoleRequired(models.CandidateRole), middleware.RbacMiddleware())
	InitCandidateAppealApiRouters(candidate)

	//trainer
	trainer := fiber.New()
	apiV1.Mount("/trainer", trainer)
	trainer.Use(middleware.AuthorizationRequired(), middleware.RoleRequired(models.TrainerRole), middleware.RbacMiddleware())
	InitTrainerAppealApiRouters(trainer)

	//tenant admin
	admin := fiber.New()
	apiV1.Mount("/admin", admin)
	admin.Use(middleware.AuthorizationRequired(), middleware.RoleRequired(models.TenantAdminRole), middleware.RbacMiddleware())
	InitAdminAppealApiRouters(admin)

	permissions := fiber.New()
	apiV1.Mount("/permissions", permissions)
	permissions.Use(middleware.AuthorizationRequired(), middleware.RbacMiddleware())
	InitPermissionsApiRouters(permissions)
}
