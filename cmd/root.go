// Package cmd implements the command-line interface for mpv-handler.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gabreek/mpv-handler-queue/color"
	"github.com/gabreek/mpv-handler-queue/constant"
	"github.com/gabreek/mpv-handler-queue/handler"
	"github.com/gabreek/mpv-handler-queue/icon"
	"github.com/gabreek/mpv-handler-queue/key"
	"github.com/gabreek/mpv-handler-queue/log"
	"github.com/gabreek/mpv-handler-queue/player"
	"github.com/gabreek/mpv-handler-queue/protocol"
	"github.com/gabreek/mpv-handler-queue/style"
	"github.com/gabreek/mpv-handler-queue/version"
	"github.com/gabreek/mpv-handler-queue/ytdl"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes reported to desktop environments and shell callers. Browsers
// surface a non-zero handler exit as a generic failure, so distinct codes
// matter mostly for scripting and bug reports.
const (
	exitBadRequest    = 2
	exitResolver      = 3
	exitChannel       = 4
	exitEnqueueForced = 5
	exitSpawn         = 6
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, plain)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})
}

// rootCmd handles a single mpv:// URI activation, which is how browsers
// invoke the binary through the registered scheme handler.
var rootCmd = &cobra.Command{
	Use:   constant.MpvHandler + " [uri]",
	Short: "A protocol handler that queues web media into a running mpv",
	Long: constant.MpvHandler + " decodes mpv:// links, resolves them with yt-dlp and\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    appends them to a running mpv session, or starts a fresh one"),
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, nil)
			return
		}

		if len(args) == 0 {
			lo.Must0(cmd.Help())
			return
		}

		CheckDependencies()

		req, err := protocol.Parse(args[0])
		handleErr(err)

		if req.Debug() {
			log.SetVerbose()
		}

		handleErr(handler.New().Run(context.Background(), req))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(exitCode(err))
	}
}

// exitCode maps error kinds to the documented exit codes.
func exitCode(err error) int {
	switch {
	case errors.Is(err, protocol.ErrInvalidRequest),
		errors.Is(err, protocol.ErrInvalidEncoding),
		errors.Is(err, protocol.ErrUnsupportedPlugin):
		return exitBadRequest
	case errors.Is(err, ytdl.ErrUnavailable),
		errors.Is(err, ytdl.ErrNoPlayableMedia),
		errors.Is(err, ytdl.ErrTimeout):
		return exitResolver
	case errors.Is(err, handler.ErrEnqueueUnavailable):
		return exitEnqueueForced
	case errors.Is(err, player.ErrChannel):
		return exitChannel
	case errors.Is(err, player.ErrSpawn):
		return exitSpawn
	default:
		return 1
	}
}
