package apiv1

import (
	"labor-mobility-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

type trainerAppealApiController struct {
	controllers.BaseAPIController
}

func InitTrainerAppealApiRouters(app *fiber.App) {
	controller := trainerAppealApiController{}
	app.Route("appeals", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("review", controller.review)
		})
	})
}

// @Summary Appeals of taught courses
// @Tags Trainer appeals
// @Description Appeals on attendance of the trainer's courses. A trainer without courses gets an empty list
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 appealapimodels.AppealFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]appealapimodels.AppealView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trainer/appeals/list [post]
func (c *trainerAppealApiController) list(ctx *fiber.Ctx) error {
	return listAppeals(&c.BaseAPIController, ctx)
}

// @Summary Appeal by ID
// @Tags Trainer appeals
// @Description Appeal by ID
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "appeal ID"
// @Success 200 {object} apimodels.Response{data=appealapimodels.AppealView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trainer/appeals/{id} [get]
func (c *trainerAppealApiController) get(ctx *fiber.Ctx) error {
	return getAppeal(&c.BaseAPIController, ctx)
}

// @Summary Review an appeal
// @Tags Trainer appeals
// @Description Approve or reject a pending appeal. Approval updates the attendance record
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "appeal ID"
// @Param	body body	 appealapimodels.AppealDecisionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=appealapimodels.AppealView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/trainer/appeals/{id}/review [put]
func (c *trainerAppealApiController) review(ctx *fiber.Ctx) error {
	return decideAppeal(&c.BaseAPIController, ctx, false)
}
