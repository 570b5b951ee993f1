// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"strings"

	"github.com/gabreek/mpv-handler-queue/filesystem"
	"github.com/gabreek/mpv-handler-queue/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// EnvPrefix is the prefix applied to all bound environment variables.
// The application identifier contains a dash, which is not valid in most
// shells, so the prefix uses an underscore instead.
const EnvPrefix = "MPV_HANDLER"

// Setup initializes the global configuration state, including defaults, environment bindings, and localized file resolution.
// A missing config file is not an error: built-in defaults apply.
func Setup() error {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	// Synchronize environment variable bindings.
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	// Initialize factory default values.
	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}
