package apiv1

import (
	"fmt"
	"labor-mobility-backend/controllers"
	appealhandler "labor-mobility-backend/lib/appeal"
	apimodels "labor-mobility-backend/models/api"
	appealapimodels "labor-mobility-backend/models/api/appeal"
	"time"

	"github.com/gofiber/fiber/v2"
)

type adminAppealApiController struct {
	controllers.BaseAPIController
}

func InitAdminAppealApiRouters(app *fiber.App) {
	controller := adminAppealApiController{}
	app.Route("appeals", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("export", controller.export)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("override", controller.override)
			idRoute.Get("history", controller.history)
			idRoute.Get("decision", controller.decision)
		})
	})
}

// @Summary Tenant appeals
// @Tags Admin appeals
// @Description Tenant-wide appeals with per-status counts over the filtered set
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 appealapimodels.AppealFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]appealapimodels.AppealView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/appeals/list [post]
func (c *adminAppealApiController) list(ctx *fiber.Ctx) error {
	return listAppeals(&c.BaseAPIController, ctx)
}

// @Summary Appeal by ID
// @Tags Admin appeals
// @Description Appeal by ID
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "appeal ID"
// @Success 200 {object} apimodels.Response{data=appealapimodels.AppealView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/appeals/{id} [get]
func (c *adminAppealApiController) get(ctx *fiber.Ctx) error {
	return getAppeal(&c.BaseAPIController, ctx)
}

// @Summary Override an appeal
// @Tags Admin appeals
// @Description Approve or reject an appeal in any status. Approval updates the attendance record
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "appeal ID"
// @Param	body body	 appealapimodels.AppealDecisionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=appealapimodels.AppealView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/appeals/{id}/override [put]
func (c *adminAppealApiController) override(ctx *fiber.Ctx) error {
	return decideAppeal(&c.BaseAPIController, ctx, true)
}

// @Summary Appeal history
// @Tags Admin appeals
// @Description Status transitions of an appeal
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "appeal ID"
// @Success 200 {object} apimodels.Response{data=[]appealapimodels.AppealHistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/appeals/{id}/history [get]
func (c *adminAppealApiController) history(ctx *fiber.Ctx) error {
	return appealHistory(&c.BaseAPIController, ctx)
}

// @Summary Decision letter
// @Tags Admin appeals
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
// @router /api/v1/admin/appeals/{id}/decision [get]
func (c *adminAppealApiController) decision(ctx *fiber.Ctx) error {
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

// @Summary Export appeals
// @Tags Admin appeals
// @Description Filtered tenant appeals as xlsx, without paging
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 appealapimodels.AppealFilter	true	"request body"
// @Produce application/vnd.ms-excel
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/appeals/export [post]
func (c *adminAppealApiController) export(ctx *fiber.Ctx) error {
	var payload appealapimodels.AppealFilter
	if len(ctx.Body()) != 0 {
		if err := c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	data, err := appealhandler.Instance.Export(ctx.UserContext(), c.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to export appeals")
	}
	fileName := fmt.Sprintf("appeals-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set(fiber.HeaderContentType, "application/vnd.ms-excel")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}
