package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// CommandCase runs an external command as a benchmark case. The case
// fails when the command cannot start or exits non-zero.
type CommandCase struct {
	Binary    string
	Args      []string
	Env       []string
	StdinPath string
	Timeout   time.Duration
	Logger    *slog.Logger
}

// NewCommandCase creates a CommandCase. Env is appended to the inherited
// environment.
func NewCommandCase(
	binary string,
	args, env []string,
	logger *slog.Logger,
) *CommandCase {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &CommandCase{
		Binary: binary,
		Args:   args,
		Env:    env,
		Logger: logger.With(slog.String("command", binary)),
	}
}

// Run executes the command and waits for it to exit.
func (c *CommandCase) Run() error {
	ctx := context.Background()

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Binary, c.Args...)

	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	if c.StdinPath != "" {
		stdin, err := os.Open(c.StdinPath)
		if err != nil {
			return fmt.Errorf("open stdin %s: %w", c.StdinPath, err)
		}
		defer stdin.Close()

		cmd.Stdin = stdin
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if c.Logger != nil {
		c.Logger.Debug("starting command",
			slog.String("args", strings.Join(c.Args, " ")),
		)
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf(
			"command %s failed: %w\nstderr: %s",
			c.Binary, err, stderr.String(),
		)
	}

	return nil
}

// String returns the command line the case runs.
func (c *CommandCase) String() string {
	return strings.TrimSpace(c.Binary + " " + strings.Join(c.Args, " "))
}
