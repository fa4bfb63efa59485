// Package console sends commands to the game server over RCON.
package console

import (
	"fmt"
	"strings"

	"github.com/gorcon/rcon"

	"github.com/sdejongh/modnorris/pkg/config"
)

// ConsoleError is raised when an RCON command cannot be delivered
type ConsoleError struct {
	Message string
	Err     error
}

func (e *ConsoleError) Error() string {
	return e.Message
}

func (e *ConsoleError) Unwrap() error {
	return e.Err
}

// Send delivers one command over RCON and returns the trimmed response
func Send(cfg *config.Config, command string) (string, error) {
	if !cfg.Rcon.Enabled {
		return "", &ConsoleError{Message: "RCON is disabled in this configuration"}
	}

	address := fmt.Sprintf("%s:%d", cfg.Rcon.Host, cfg.Rcon.Port)
	conn, err := rcon.Dial(address, cfg.Rcon.Password)
	if err != nil {
		return "", &ConsoleError{Message: fmt.Sprintf("unable to reach RCON at %s", address), Err: err}
	}
	defer conn.Close()

	response, err := conn.Execute(command)
	if err != nil {
		return "", &ConsoleError{Message: fmt.Sprintf("RCON command failed: %v", err), Err: err}
	}
	return strings.TrimSpace(response), nil
}
