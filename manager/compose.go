package manager

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
)

// DefaultComposeCommand is the compose CLI used when none is configured.
const DefaultComposeCommand = "docker compose"

// runFunc executes name with args inside dir and returns combined output.
type runFunc func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// ComposeRunner runs `<compose> up -d <services>` in a project directory.
type ComposeRunner struct {
	command []string
	run     runFunc
}

// NewComposeRunner splits command (e.g. "docker compose" or "docker-compose")
// into the executable and its leading arguments.
func NewComposeRunner(command string) *ComposeRunner {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		fields = strings.Fields(DefaultComposeCommand)
	}
	return &ComposeRunner{command: fields, run: execRun}
}

// Up starts services detached. An empty service list starts the whole project.
func (c *ComposeRunner) Up(ctx context.Context, dir string, services ...string) error {
	args := append([]string{}, c.command[1:]...)
	args = append(args, "up", "-d")
	args = append(args, services...)

	log.Printf("ComposeRunner: Running '%s %s' in %s", c.command[0], strings.Join(args, " "), dir)
	out, err := c.run(ctx, dir, c.command[0], args...)
	if err != nil {
		return fmt.Errorf("%s up failed for %v: %w: %s", strings.Join(c.command, " "), services, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func execRun(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return buf.Bytes(), err
}
