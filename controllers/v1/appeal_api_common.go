package apiv1

import (
	"labor-mobility-backend/controllers"
	appealhandler "labor-mobility-backend/lib/appeal"
	apimodels "labor-mobility-backend/models/api"
	appealapimodels "labor-mobility-backend/models/api/appeal"

	"github.com/gofiber/fiber/v2"
)

type appealListResponse struct {
	apimodels.ScrollerResponse
	Stats *appealapimodels.AppealStats `json:"stats,omitempty"`
}

func listAppeals(c *controllers.BaseAPIController, ctx *fiber.Ctx) error {
	var payload appealapimodels.AppealFilter
	if len(ctx.Body()) != 0 {
		if err := c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	list, err := appealhandler.Instance.List(ctx.UserContext(), c.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to load appeal list")
	}
	return ctx.Status(fiber.StatusOK).JSON(appealListResponse{
		ScrollerResponse: apimodels.NewScrollerResponse(list.Items, list.RowCount),
		Stats:            list.Stats,
	})
}

func getAppeal(c *controllers.BaseAPIController, ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := appealhandler.Instance.Get(ctx.UserContext(), c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to load appeal")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

func appealHistory(c *controllers.BaseAPIController, ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := appealhandler.Instance.History(ctx.UserContext(), c.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to load appeal history")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

func decideAppeal(c *controllers.BaseAPIController, ctx *fiber.Ctx, override bool) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload appealapimodels.AppealDecisionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var resp appealapimodels.AppealView
	if override {
		resp, err = appealhandler.Instance.Override(ctx.UserContext(), c.GetActor(ctx), id, payload)
	} else {
		resp, err = appealhandler.Instance.Review(ctx.UserContext(), c.GetActor(ctx), id, payload)
	}
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to decide appeal")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
