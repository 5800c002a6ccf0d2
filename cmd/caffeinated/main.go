// Command caffeinated runs a campaign in a window, or validates one without a window.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/plus3/caffeinated/config"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	profile    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "caffeinated",
		Short:         "A small sprite game engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGame(opts)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "settings file")
	root.PersistentFlags().StringVar(&opts.profile, "profile", "", "write a cpu or mem profile to the working directory")

	root.AddCommand(newRunCmd(opts), newValidateCmd(opts))
	return root
}

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the game window (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGame(opts)
		},
	}
}

// setup loads the settings and builds the logger they describe.
func setup(opts *options) (*config.Settings, *zap.Logger, error) {
	settings, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := newLogger(settings.Logging)
	if err != nil {
		return nil, nil, eris.Wrap(err, "create logger")
	}
	for _, key := range settings.Undecoded {
		log.Warn("unknown setting ignored", zap.String("key", key), zap.String("file", opts.configPath))
	}
	return settings, log, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// startProfile starts the named profiler. The returned function stops it.
func startProfile(kind string) (func(), error) {
	switch kind {
	case "":
		return func() {}, nil
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop, nil
	case "mem":
		return profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop, nil
	}
	return nil, eris.Errorf("unknown profile %q, want cpu or mem", kind)
}
