package config

import (
	"testing"

	"github.com/gabreek/mpv-handler-queue/filesystem"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error when no config file exists", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("player.socket")
			So(result, ShouldEqual, "player_socket")
		})

		Convey("Env names carry the application prefix", func() {
			f := Default["player.socket"]
			So(f.Env(), ShouldEqual, "MPV_HANDLER_PLAYER_SOCKET")
		})
	})
}
