package fiberlog

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid     = "pid"
	TagLatency = "latency"
	TagStatus  = "status"
	TagMethod  = "method"
	TagPath    = "path"
	TagURL     = "url"
	TagIP      = "ip"
	TagUA      = "user_agent"
	TagBody    = "body"
	TagResBody = "res_body"
	TagRoute   = "route"
	RequestID  = "request_id"
)

// FuncTag returns the value logged under a tag
type FuncTag func(c *fiber.Ctx, d *data) interface{}

type data struct {
	pid     int
	maxBody int
	start   time.Time
	end     time.Time
}

func (d *data) truncate(body []byte) string {
	if len(body) > d.maxBody {
		return string(body[:d.maxBody]) + "..."
	}
	return string(body)
}

var funcTags = map[string]FuncTag{
	TagPid: func(c *fiber.Ctx, d *data) interface{} {
		return d.pid
	},
	TagLatency: func(c *fiber.Ctx, d *data) interface{} {
		return d.end.Sub(d.start).String()
	},
	TagStatus: func(c *fiber.Ctx, d *data) interface{} {
		return c.Response().StatusCode()
	},
	TagMethod: func(c *fiber.Ctx, d *data) interface{} {
		return c.Method()
	},
	TagPath: func(c *fiber.Ctx, d *data) interface{} {
		return c.Path()
	},
	TagURL: func(c *fiber.Ctx, d *data) interface{} {
		return c.OriginalURL()
	},
	TagIP: func(c *fiber.Ctx, d *data) interface{} {
		return c.IP()
	},
	TagUA: func(c *fiber.Ctx, d *data) interface{} {
		return c.Get(fiber.HeaderUserAgent)
	},
	TagBody: func(c *fiber.Ctx, d *data) interface{} {
		if c.Is("json") {
			return d.truncate(c.Body())
		}
		return ""
	},
	TagResBody: func(c *fiber.Ctx, d *data) interface{} {
		if strings.HasPrefix(string(c.Response().Header.ContentType()), fiber.MIMEApplicationJSON) {
			return d.truncate(c.Response().Body())
		}
		return ""
	},
	TagRoute: func(c *fiber.Ctx, d *data) interface{} {
		if r := c.Route(); r != nil {
			return r.Path
		}
		return ""
	},
	RequestID: func(c *fiber.Ctx, d *data) interface{} {
		if id := c.Get(fiber.HeaderXRequestID); id != "" {
			return id
		}
		return string(c.Response().Header.Peek(fiber.HeaderXRequestID))
	},
}

// getFuncTagMap keeps the tags listed in cfg that have a known implementation
func getFuncTagMap(cfg Config) map[string]FuncTag {
	ftm := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := funcTags[tag]; ok {
			ftm[tag] = ft
		}
	}
	return ftm
}
