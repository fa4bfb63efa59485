// Package server wraps the docker compose lifecycle of the game server.
package server

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sdejongh/modnorris/pkg/config"
)

// ComposeError is raised when a docker compose operation fails
type ComposeError struct {
	Message string
	Err     error
}

func (e *ComposeError) Error() string {
	return e.Message
}

func (e *ComposeError) Unwrap() error {
	return e.Err
}

// Status describes the observed container state
type Status struct {
	Running     bool
	ContainerID string
	Uptime      string
}

func composeOutput(ctx context.Context, cfg *config.Config, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Dir = cfg.ServerRoot
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func composeRun(ctx context.Context, cfg *config.Config, action string, args ...string) error {
	full := append([]string{"compose"}, args...)
	full = append(full, cfg.DockerService)
	stdout, stderr, err := composeOutput(ctx, cfg, full...)
	if err != nil {
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			detail = strings.TrimSpace(stdout)
		}
		if detail == "" {
			detail = err.Error()
		}
		return &ComposeError{Message: fmt.Sprintf("failed to %s: %s", action, detail), Err: err}
	}
	return nil
}

// GetStatus reports whether the service container is running and, when it
// is, its id and uptime.
func GetStatus(ctx context.Context, cfg *config.Config) (*Status, error) {
	stdout, _, err := composeOutput(ctx, cfg, "compose", "ps", "-q", cfg.DockerService)
	if err != nil {
		return nil, &ComposeError{Message: "failed to query server status", Err: err}
	}

	containerID := strings.TrimSpace(stdout)
	if containerID == "" {
		return &Status{Running: false}, nil
	}

	status := &Status{Running: true, ContainerID: containerID}
	startedAt, _, err := composeOutput(ctx, cfg, "inspect", "-f", "{{.State.StartedAt}}", containerID)
	if err == nil {
		status.Uptime = calculateUptime(strings.TrimSpace(startedAt))
	}
	return status, nil
}

func calculateUptime(startedAt string) string {
	if startedAt == "" {
		return ""
	}
	started, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return ""
	}
	return time.Since(started).Round(time.Second).String()
}

// Start brings the service up in the background
func Start(ctx context.Context, cfg *config.Config) error {
	return composeRun(ctx, cfg, "start server", "up", "-d")
}

// Stop stops the service container
func Stop(ctx context.Context, cfg *config.Config) error {
	return composeRun(ctx, cfg, "stop server", "stop")
}

// Restart stops then starts the service container
func Restart(ctx context.Context, cfg *config.Config) error {
	if err := Stop(ctx, cfg); err != nil {
		return err
	}
	return Start(ctx, cfg)
}

// Attach connects the current terminal to the running container console
func Attach(ctx context.Context, cfg *config.Config) error {
	status, err := GetStatus(ctx, cfg)
	if err != nil {
		return err
	}
	if !status.Running || status.ContainerID == "" {
		return &ComposeError{Message: "server is not running; start it before attaching"}
	}

	cmd := exec.CommandContext(ctx, "docker", "attach", status.ContainerID)
	cmd.Dir = cfg.ServerRoot
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 130 {
			// Detached with Ctrl-C.
			return nil
		}
		return &ComposeError{Message: "failed to attach to server console", Err: err}
	}
	return nil
}
