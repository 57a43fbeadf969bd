package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type errNotifyPayload struct {
	Code    int    `json:"code"`
	Method  string `json:"method"`
	Path    string `json:"path"`
	SpaceID string `json:"space_id,omitempty"`
	Error   string `json:"error"`
}

var errNotifyClient = &http.Client{Timeout: 5 * time.Second}

// ErrNotify posts every 5xx answer to addr without delaying the response.
func ErrNotify(addr string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < http.StatusInternalServerError {
			return err
		}

		var data struct {
			Message string `json:"message"`
		}
		if unmErr := json.Unmarshal(c.Response().Body(), &data); unmErr != nil {
			log.WithError(unmErr).Warn("error unmarshalling response body in middleware")
		}
		payload := errNotifyPayload{
			Code:    statusCode,
			Method:  c.Method(),
			Path:    c.OriginalURL(),
			SpaceID: GetUserSpace(c),
			Error:   data.Message,
		}
		if r := c.Route(); r != nil {
			payload.Path = r.Path
		}
		if payload.Error == "" {
			payload.Error = string(c.Response().Body())
		}

		go func() {
			body, marshalErr := json.Marshal(payload)
			if marshalErr != nil {
				log.WithError(marshalErr).Warn("error encoding error notification")
				return
			}
			resp, reqErr := errNotifyClient.Post(addr, fiber.MIMEApplicationJSON, bytes.NewReader(body))
			if reqErr != nil {
				log.WithError(reqErr).Warn("error sending error notification")
				return
			}
			resp.Body.Close()
		}()
		return err
	}
}
