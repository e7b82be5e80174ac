package main

import (
	"time"

	"github.com/pkg/errors"
)

// Config holds the server's static configuration. Unlike the config files
// some IRC daemons read at startup, every field here is derived from the
// two positional command line arguments plus a small set of constants -
// there is no configuration file in this server's external interface.
type Config struct {
	ServerName string
	Version    string
	Password   string
	Port       int
	MaxClients int

	// MOTD is sent line by line after registration completes.
	MOTD []string

	// WakeupTime controls how often the maintenance tick runs (reaping
	// empty channels, checking ping/idle timeouts).
	WakeupTime time.Duration

	// PingTime is how long a registered client may be idle before we send
	// it a PING; while it stays idle, PINGs repeat at most once per
	// PingTime.
	PingTime time.Duration

	// DeadTime is how long a client (registered or not) may go without
	// activity before we disconnect it.
	DeadTime time.Duration
}

const defaultServerName = "irc.example.net"
const defaultVersion = "ircd-1.0"
const defaultMaxClients = 256

var defaultMOTD = []string{
	"Welcome to the server.",
	"Be excellent to each other.",
}

// newConfig builds a Config from the parsed command line arguments.
func newConfig(port int, password string) (*Config, error) {
	if port < 1 || port > 65535 {
		return nil, errors.Errorf("port out of range: %d", port)
	}
	if len(password) == 0 {
		return nil, errors.New("password must not be empty")
	}
	if len(password) > 255 {
		return nil, errors.New("password too long")
	}
	for _, r := range password {
		if r == '\t' {
			continue
		}
		if r < 0x20 || r == 0x7f {
			return nil, errors.New("password contains control characters")
		}
	}

	return &Config{
		ServerName: defaultServerName,
		Version:    defaultVersion,
		Password:   password,
		Port:       port,
		MaxClients: defaultMaxClients,
		MOTD:       defaultMOTD,
		WakeupTime: time.Second,
		PingTime:   2 * time.Minute,
		DeadTime:   5 * time.Minute,
	}, nil
}
