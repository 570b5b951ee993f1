package player

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/gabreek/mpv-handler-queue/constant"
	"github.com/gabreek/mpv-handler-queue/log"
)

// Spawner launches fresh, detached player instances.
type Spawner struct {
	// Binary is the resolved path of the mpv executable.
	Binary string
	// Socket, when non-empty, is passed as --input-ipc-server so later
	// invocations can enqueue into the instance being launched.
	Socket string
	// Proxy, when non-empty, is exported as http(s)_proxy to the child.
	Proxy string
}

// Launch starts a new player process with the given options and playback
// target. It is fire-and-forget: the child is detached from the handler's
// process group and never awaited beyond zombie reaping.
func (s *Spawner) Launch(args []string, target string) error {
	argv := make([]string, 0, len(args)+3)
	argv = append(argv, args...)
	if s.Socket != "" {
		argv = append(argv, "--input-ipc-server="+s.Socket)
	}
	// "--" stops flag parsing so the target can never be read as an option.
	argv = append(argv, "--", target)

	cmd := exec.Command(s.Binary, argv...)
	cmd.Env = s.environ()
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	log.Debugf("launching %s with %d options", s.Binary, len(args))

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrSpawn, s.Binary, err)
	}

	// Reap the child in the background to avoid zombies.
	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

// environ builds the child environment: the handler's own environment with
// proxy variables applied and loader overrides scrubbed. Loader overrides
// from the invoking browser sandbox break mpv's own shared libraries.
func (s *Spawner) environ() []string {
	env := os.Environ()

	if runtime.GOOS != constant.Windows {
		env = without(env, "LD_LIBRARY_PATH", "LD_PRELOAD")
	}

	if s.Proxy != "" {
		for _, name := range []string{"http_proxy", "HTTP_PROXY", "https_proxy", "HTTPS_PROXY"} {
			env = append(without(env, name), name+"="+s.Proxy)
		}
	}

	return env
}

func without(env []string, names ...string) []string {
	kept := env[:0]
	for _, kv := range env {
		drop := false
		for _, name := range names {
			if len(kv) > len(name) && kv[len(name)] == '=' && kv[:len(name)] == name {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, kv)
		}
	}
	return kept
}
