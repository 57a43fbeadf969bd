package controllers

import (
	appealhandler "labor-mobility-backend/lib/appeal"
	"labor-mobility-backend/middleware"
	apimodels "labor-mobility-backend/models/api"
	"labor-mobility-backend/models/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("request parsing failed")
		return errors.New("failed to read request data")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetIDByKey(ctx, "id")
}

func (c *BaseAPIController) GetIDByKey(ctx *fiber.Ctx, key string) (string, error) {
	id := ctx.Params(key)
	if id == "" {
		return "", errors.Errorf("%v is not set", key)
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.Errorf("%v is not a valid identifier", key)
	}
	return id, nil
}

func (c *BaseAPIController) GetActor(ctx *fiber.Ctx) appealhandler.Actor {
	return appealhandler.Actor{
		UserID:  middleware.GetUserID(ctx),
		SpaceID: middleware.GetUserSpace(ctx),
		Role:    middleware.GetSpaceRole(ctx),
	}
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("space_id", middleware.GetUserSpace(ctx)).
		WithField("user_id", middleware.GetUserID(ctx)).
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
}

var statusByKind = map[apperrors.Kind]int{
	apperrors.KindNotFound:   fiber.StatusNotFound,
	apperrors.KindForbidden:  fiber.StatusForbidden,
	apperrors.KindConflict:   fiber.StatusConflict,
	apperrors.KindValidation: fiber.StatusBadRequest,
	apperrors.KindInternal:   fiber.StatusInternalServerError,
}

// SendError writes a typed rejection as is; anything else is logged and answered with msg.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	kind := apperrors.KindOf(err)
	if kind == apperrors.KindInternal {
		logger.WithError(err).Error(msg)
	}
	return ctx.Status(statusByKind[kind]).JSON(apimodels.NewError(apperrors.PublicMessage(err, msg)))
}
