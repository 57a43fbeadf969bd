package apiv1

import (
	"labor-mobility-backend/controllers"
	"labor-mobility-backend/lib/rbac"
	"labor-mobility-backend/middleware"
	apimodels "labor-mobility-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type permissionsApiController struct {
	controllers.BaseAPIController
}

func InitPermissionsApiRouters(app *fiber.App) {
	controller := permissionsApiController{}
	app.Get("", controller.get)
}

// @Summary Permissions of the current role
// @Tags Permissions
// @Description Module permissions granted to the caller's role
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=map[string][]string}
// @Failure 403 {object} apimodels.Response
// @router /api/v1/permissions [get]
func (c *permissionsApiController) get(ctx *fiber.Ctx) error {
	perms := rbac.Instance.GetPermissions(middleware.GetSpaceRole(ctx))
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(perms))
}
