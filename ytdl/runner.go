package ytdl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/gabreek/mpv-handler-queue/log"
)

// ExecRunner invokes the resolver binary as a subprocess. It exists behind
// the Runner interface so resolution logic can be tested without a process
// environment.
type ExecRunner struct {
	Binary string
	Proxy  string
}

// Run executes the binary once. A missing binary maps to ErrUnavailable and
// a cancelled context to ErrTimeout; any other failure is reported with the
// tool's stderr attached.
func (r *ExecRunner) Run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.Binary, args...)

	if r.Proxy != "" {
		cmd.Env = append(os.Environ(),
			"http_proxy="+r.Proxy,
			"HTTP_PROXY="+r.Proxy,
			"https_proxy="+r.Proxy,
			"HTTPS_PROXY="+r.Proxy,
		)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debugf("running %s %v", r.Binary, args)

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, r.Binary)
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %s", ErrTimeout, r.Binary)
	}

	if msg := stderr.String(); msg != "" {
		return nil, fmt.Errorf("%s: %s", err, msg)
	}
	return nil, err
}
