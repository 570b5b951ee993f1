// Package main is the entry point for the mpv-handler application.
package main

import (
	"github.com/gabreek/mpv-handler-queue/cmd"
	"github.com/gabreek/mpv-handler-queue/config"
	"github.com/gabreek/mpv-handler-queue/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
