package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.bug.st/serial/enumerator"

	"github.com/moffa90/go-busboot/bootloader"
	"github.com/moffa90/go-busboot/serialbus"
)

var (
	flagConfig  string
	flagVerbose bool
	flagFlash   FlashConfig
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "busboot",
		Short:         "Flash firmware to microcontroller nodes on a multidrop serial bus",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newFlashCmd())
	root.AddCommand(newPortsCmd())
	return root
}

func newFlashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flash <image.bin>",
		Short: "Send a raw firmware image to all nodes on the bus",
		Long: `Send a raw firmware image to all nodes on the bus.

The image is split into fixed-size flash pages and streamed page by page.
The nodes acknowledge over the shared DSR line; pages a node flags as bad
are retried from the first failing page to the end of the image.

The image file is used as-is: extract raw bytes from Intel HEX or other
containers before flashing.`,
		Args: cobra.ExactArgs(1),
		RunE: runFlash,
	}

	cmd.Flags().StringVarP(&flagConfig, "config", "c", "", "TOML config file")
	cmd.Flags().StringVarP(&flagFlash.Port, "port", "p", "", "serial port (e.g. /dev/ttyUSB0)")
	cmd.Flags().IntVarP(&flagFlash.Baud, "baud", "b", 57600, "baud rate")
	cmd.Flags().IntVar(&flagFlash.PageSize, "page-size", 0, "flash page size in bytes (required)")
	cmd.Flags().IntVar(&flagFlash.VersionMajor, "fw-major", 0, "target firmware major version")
	cmd.Flags().IntVar(&flagFlash.VersionMinor, "fw-minor", 0, "target firmware minor version")
	cmd.Flags().IntVar(&flagFlash.MaxTries, "max-tries", 2, "maximum retry passes")
	cmd.Flags().IntVar(&flagFlash.PageDelayMs, "page-delay", 800, "delay between pages in milliseconds")
	cmd.Flags().IntVar(&flagFlash.SignalTimeoutMs, "signal-timeout", 1000, "signal line wait timeout in milliseconds")

	return cmd
}

func runFlash(cmd *cobra.Command, args []string) error {
	log := newLogger(flagVerbose)

	cfg := defaultFlashConfig()
	if flagConfig != "" {
		var err error
		cfg, err = LoadFlashConfig(flagConfig)
		if err != nil {
			log.Error().Err(err).Msg("config load failed")
			return err
		}
	}
	applyFlagOverrides(cmd, &cfg)

	if err := ValidateFlashConfig(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return err
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		log.Error().Err(err).Msg("image read failed")
		return err
	}

	bus, err := serialbus.Open(cfg.Port, cfg.Baud)
	if err != nil {
		log.Error().Err(err).Msg("port open failed")
		return err
	}
	defer bus.Close()

	sess, err := bootloader.New(bus, bus,
		bootloader.WithPageSize(cfg.PageSize),
		bootloader.WithVersion(byte(cfg.VersionMajor), byte(cfg.VersionMinor)),
		bootloader.WithMaxTries(cfg.MaxTries),
		bootloader.WithPageDelay(time.Duration(cfg.PageDelayMs)*time.Millisecond),
		bootloader.WithSignalTimeout(time.Duration(cfg.SignalTimeoutMs)*time.Millisecond),
		bootloader.WithLogger(sessionLogger{log: log}),
		bootloader.WithStatusCallback(func(e bootloader.Event) {
			log.Info().
				Int("page", e.CurrentPage).
				Int("pages", e.PageCount).
				Int("retries", e.RetryCount).
				Msg(e.Message)
		}),
		bootloader.WithErrorCallback(func(e bootloader.Event) {
			log.Warn().
				Int("page", e.CurrentPage).
				Int("failing_page", e.FirstFailingPage).
				Int("retries", e.RetryCount).
				Msg(e.Message)
		}),
	)
	if err != nil {
		log.Error().Err(err).Msg("session setup failed")
		return err
	}

	log.Info().
		Str("port", cfg.Port).
		Int("baud", cfg.Baud).
		Int("bytes", len(content)).
		Msg("flashing")

	if err := sess.Program(cmd.Context(), content); err != nil {
		log.Error().Err(err).Msg("flash failed")
		return err
	}

	log.Info().Msg("flash complete")
	return nil
}

// applyFlagOverrides copies only the flags the user actually set over the
// file configuration.
func applyFlagOverrides(cmd *cobra.Command, cfg *FlashConfig) {
	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("port", func() { cfg.Port = flagFlash.Port })
	set("baud", func() { cfg.Baud = flagFlash.Baud })
	set("page-size", func() { cfg.PageSize = flagFlash.PageSize })
	set("fw-major", func() { cfg.VersionMajor = flagFlash.VersionMajor })
	set("fw-minor", func() { cfg.VersionMinor = flagFlash.VersionMinor })
	set("max-tries", func() { cfg.MaxTries = flagFlash.MaxTries })
	set("page-delay", func() { cfg.PageDelayMs = flagFlash.PageDelayMs })
	set("signal-timeout", func() { cfg.SignalTimeoutMs = flagFlash.SignalTimeoutMs })
}

func newPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List available serial ports",
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := enumerator.GetDetailedPortsList()
			if err != nil {
				return err
			}
			if len(ports) == 0 {
				fmt.Println("no serial ports found")
				return nil
			}
			for _, port := range ports {
				if port.IsUSB {
					fmt.Printf("%s\tUSB %s:%s", port.Name, port.VID, port.PID)
					if port.SerialNumber != "" {
						fmt.Printf("\tSN %s", port.SerialNumber)
					}
					fmt.Println()
				} else {
					fmt.Println(port.Name)
				}
			}
			return nil
		},
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Str("run", uuid.NewString()[:8]).
		Logger()
}

// sessionLogger adapts zerolog to the bootloader.Logger interface.
type sessionLogger struct {
	log zerolog.Logger
}

func (l sessionLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l sessionLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info().Fields(keysAndValues).Msg(msg)
}

func (l sessionLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Fields(keysAndValues).Msg(msg)
}
