package dialog

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/gabreek/mpv-handler-queue/log"
)

// ExecRunner drives a zenity-compatible dialog binary.
type ExecRunner struct {
	Binary  string
	Timeout time.Duration
}

// Prompt presents a numeric entry dialog with a countdown. The exit code is
// the tool's own: 0 for OK, 1 for cancel, 5 when the countdown fired.
func (r *ExecRunner) Prompt(ctx context.Context, text string) (string, int, error) {
	cmd := exec.CommandContext(ctx, r.Binary,
		"--entry",
		"--text", text,
		"--entry-text", "0",
		"--cancel-label=Play only the first video",
		fmt.Sprintf("--timeout=%d", int(r.Timeout/time.Second)),
	)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	log.Debugf("prompting via %s", r.Binary)

	err := cmd.Run()
	if err == nil {
		return stdout.String(), 0, nil
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		return stdout.String(), exitErr.ExitCode(), nil
	}

	// The process never started: missing binary or spawn fault.
	return "", 0, err
}
