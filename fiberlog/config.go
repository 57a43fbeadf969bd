package fiberlog

import "github.com/sirupsen/logrus"

const defaultMaxBodySize = 4096

// Config of the request logger. Body tags only log JSON payloads, cut to MaxBodySize bytes.
type Config struct {
	Logger      *logrus.Logger
	Tags        []string
	MaxBodySize int
}

var ConfigDefault = Config{
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
		TagRoute,
	},
	MaxBodySize: defaultMaxBodySize,
}

func configDefault(config ...Config) Config {
	if len(config) == 0 {
		return ConfigDefault
	}
	cfg := config[0]
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = defaultMaxBodySize
	}
	return cfg
}
