// Package cmd implements the command-line interface for mpv-handler.
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/gabreek/mpv-handler-queue/icon"
	"github.com/gabreek/mpv-handler-queue/key"
	"github.com/gabreek/mpv-handler-queue/style"
	"github.com/gabreek/mpv-handler-queue/util"
	"github.com/spf13/viper"
)

// CheckDependencies verifies that the configured player and resolver
// binaries exist before any request work starts.
func CheckDependencies() {
	for _, dep := range []string{
		viper.GetString(key.PlayerPath),
		viper.GetString(key.YtdlPath),
	} {
		if _, err := exec.LookPath(util.ResolveBinary(dep)); err != nil {
			printMissingDependencyError(dep)
			os.Exit(1)
		}
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case "darwin":
		installCmd = "brew install " + dep
	case "linux":
		installCmd = "sudo apt install " + dep
	case "windows":
		installCmd = "scoop install " + dep
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
