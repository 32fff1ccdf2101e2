package main

import "time"

type Config struct {
	MumbleAddress            string        `env:"MUMBLE_ADDRESS,required=true" validate:"required"`
	MumblePort               int           `env:"MUMBLE_PORT,default=64738" validate:"min=1,max=65535"`
	MumbleTLSServerName      string        `env:"MUMBLE_TLS_SERVER_NAME"`
	MumbleInsecureSkipVerify bool          `env:"MUMBLE_INSECURE_SKIP_VERIFY,default=false"`
	MumbleUsername           string        `env:"MUMBLE_USERNAME,required=true" validate:"required"`
	MumblePassword           *string       `env:"MUMBLE_PASSWORD"`
	TelegramToken            string        `env:"TELEGRAM_TOKEN,required=true" validate:"required"`
	TelegramChatID           int64         `env:"TELEGRAM_CHAT_ID,required=true" validate:"required"`
	IgnoreBots               bool          `env:"IGNORE_BOTS,default=true"`
	StateFilepath            string        `env:"STATE_FILEPATH,default=bridge_state.json"`
	BadgerFilepath           string        `env:"BADGER_FILEPATH,default=bridge_archive"`
	LimitMessages            *int          `env:"LIMIT_MESSAGES"`
	SinkTimeout              time.Duration `env:"SINK_TIMEOUT,default=10s"`
	LogLevel                 string        `env:"LOG_LEVEL,default=info"`
}
