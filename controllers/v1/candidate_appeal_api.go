package apiv1

import (
	"fmt"
	"labor-mobility-backend/controllers"
	appealhandler "labor-mobility-backend/lib/appeal"
	apimodels "labor-mobility-backend/models/api"
	appealapimodels "labor-mobility-backend/models/api/appeal"

	"github.com/gofiber/fiber/v2"
)

type candidateAppealApiController struct {
	controllers.BaseAPIController
}

func InitCandidateAppealApiRouters(app *fiber.App) {
	controller := candidateAppealApiController{}
	app.Route("appeals", func(router fiber.Router) {
		router.Post("", controller.submit)
		router.Post("list", controller.list)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("cancel", controller.cancel)
			idRoute.Get("history", controller.history)
			idRoute.Get("decision", controller.decision)
		})
	})
}

// @Summary Submit an appeal
// @Tags Candidate appeals
// @Description Contest the status of an own attendance record
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 appealapimodels.AppealSubmitData	true	"request body"
// @Success 200 {object} apimodels.Response{data=appealapimodels.AppealView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidate/appeals [post]
func (c *candidateAppealApiController) submit(ctx *fiber.Ctx) error {
	var payload appealapimodels.AppealSubmitData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := appealhandler.Instance.Submit(ctx.UserContext(), c.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to submit appeal")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Own appeals
// @Tags Candidate appeals
// @Description Own appeals, pending first. Only the status filter applies
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 appealapimodels.AppealFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]appealapimodels.AppealView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidate/appeals/list [post]
func (c *candidateAppealApiController) list(ctx *fiber.Ctx) error {
	return listAppeals(&c.BaseAPIController, ctx)
}

// @Summary Appeal by ID
// @Tags Candidate appeals
// @Description Appeal by ID
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "appeal ID"
// @Success 200 {object} apimodels.Response{data=appealapimodels.AppealView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidate/appeals/{id} [get]
func (c *candidateAppealApiController) get(ctx *fiber.Ctx) error {
	return getAppeal(&c.BaseAPIController, ctx)
}

// @Summary Cancel an appeal
// @Tags Candidate appeals
// @Description Only pending appeals can be cancelled
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "appeal ID"
// @Success 200 {object} apimodels.Response{data=appealapimodels.AppealView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidate/appeals/{id}/cancel [put]
func (c *candidateAppealApiController) cancel(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := appealhandler.Instance.Cancel(ctx.UserContext(), c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to cancel appeal")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Appeal history
// @Tags Candidate appeals
// @Description Status transitions of an own appeal
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "appeal ID"
// @Success 200 {object} apimodels.Response{data=[]appealapimodels.AppealHistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidate/appeals/{id}/history [get]
func (c *candidateAppealApiController) history(ctx *fiber.Ctx) error {
	return appealHistory(&c.BaseAPIController, ctx)
}

// @Summary Decision letter
// @Tags Candidate appeals
// @Description PDF letter for an approved or rejected appeal
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "appeal ID"
// @Produce application/pdf
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidate/appeals/{id}/decision [get]
func (c *candidateAppealApiController) decision(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	data, err := appealhandler.Instance.DecisionLetter(ctx.UserContext(), c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to generate decision letter")
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="appeal-%v.pdf"`, id))
	return ctx.Send(data)
}
