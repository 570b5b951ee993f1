//go:build !windows

package player

import "syscall"

func sysProcAttr() *syscall.SysProcAttr {
	// Detach from the handler's process group so the player outlives us.
	return &syscall.SysProcAttr{
		Setpgid: true,
	}
}
