package main

import (
	"os"

	"github.com/fumiama/pngdec"
	"github.com/fumiama/pngdec/internal/config"
	"github.com/fumiama/pngdec/internal/logging"
	"github.com/fumiama/pngdec/oops"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	defer logging.LogPanics(nil)

	if err := newRootCommand().Execute(); err != nil {
		logging.Error().Err(err).Msg("pngdec failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		logLevel  string
		verifyCRC bool
	)

	rootCommand := &cobra.Command{
		Use:           "pngdec",
		Short:         "Inspect and decode 8-bit truecolor PNG images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Config.LoadEnv(); err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				level, err := zerolog.ParseLevel(logLevel)
				if err != nil {
					return oops.New(err, "invalid --log-level")
				}
				config.Config.LogLevel = level
			}
			if cmd.Flags().Changed("verify-crc") {
				config.Config.VerifyChecksums = verifyCRC
			}
			logging.SetLevel(config.Config.LogLevel)
			return nil
		},
	}
	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Minimum level of log messages (trace, debug, info, warn, error)")
	rootCommand.PersistentFlags().BoolVar(&verifyCRC, "verify-crc", false, "Fail on chunks whose CRC does not match")

	rootCommand.AddCommand(
		newCheckCommand(),
		newInfoCommand(),
		newDecodeCommand(),
		newPixelCommand(),
	)
	return rootCommand
}

func decoderOptions() []pngdec.Option {
	return []pngdec.Option{
		pngdec.WithChecksums(config.Config.VerifyChecksums),
		pngdec.WithLogger(logging.GlobalLogger()),
	}
}
