package api

import (
	"time"
)

type Configuration struct {
	Env                 string
	AppName             string
	AppVersion          string
	Port                string
	AppUrl              string
	RequestLoggingLevel string

	DefaultTimeout      time.Duration
	DeliberationTimeout time.Duration
	MaxAttachmentsSize  int64
}
