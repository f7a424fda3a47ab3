package config

import "time"

// Config is read from the environment at startup.
type Config struct {
	// Address the HTTP server listens on
	Addr string `envconfig:"POWERBALL_ADDR" default:":5000"`

	// Shared secret for the admin endpoints (simple, this is a party game)
	AdminPassword string `envconfig:"POWERBALL_ADMIN_PASSWORD" default:"admin123"`

	// Path of the JSON state file
	SavePath string `envconfig:"POWERBALL_SAVE_PATH" default:"powerball_state.json"`

	// How often the game is persisted while players exist
	SaveInterval time.Duration `envconfig:"POWERBALL_SAVE_INTERVAL" default:"60s"`

	// Scheduler pacing tick
	TickInterval time.Duration `envconfig:"POWERBALL_TICK_INTERVAL" default:"10ms"`

	// Websocket snapshot push cadence
	PushInterval time.Duration `envconfig:"POWERBALL_PUSH_INTERVAL" default:"250ms"`

	// Verbose request logging
	Debug bool `envconfig:"POWERBALL_DEBUG" default:"false"`
}
