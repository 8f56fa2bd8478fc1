package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/edaniels/golog"
	"github.com/spf13/cobra"

	"gpiohal/gpio"
	"gpiohal/internal/config"
	"gpiohal/internal/eventlog"
	"gpiohal/internal/server"
	"gpiohal/platform"
)

type app struct {
	resolver   *platform.Resolver
	descriptor string
	mode       string
	configPath string
	debug      bool
	log        golog.Logger
	cfg        *config.Manager
}

func newRootCmd(resolver *platform.Resolver) *cobra.Command {
	a := &app{resolver: resolver}
	root := &cobra.Command{
		Use:          "gpioctl",
		Short:        "Configure, write and read GPIO pins",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.debug {
				a.log = golog.NewDevelopmentLogger("gpioctl")
			} else {
				a.log = golog.NewLogger("gpioctl")
			}
			if a.configPath == "" && cmd.Name() != "serve" {
				return nil
			}
			a.cfg = config.NewManager(a.configPath)
			return a.cfg.Load()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.descriptor, "platform", "", "platform descriptor (default: detected, or from config)")
	pf.StringVar(&a.mode, "mode", "", "pin numbering mode: BCM or BOARD (Raspberry Pi only)")
	pf.StringVar(&a.configPath, "config", "", "configuration file, JSON or YAML (default "+config.DefaultPath+" for serve)")
	pf.BoolVar(&a.debug, "debug", false, "verbose logging")

	root.AddCommand(
		a.platformCmd(),
		a.setupCmd(),
		a.writeCmd(),
		a.levelCmd("high", gpio.High),
		a.levelCmd("low", gpio.Low),
		a.readCmd(),
		a.serveCmd(),
	)
	return root
}

// platformDescriptor picks the flag, then the config file, then the host.
func (a *app) platformDescriptor() string {
	if a.descriptor != "" {
		return a.descriptor
	}
	if a.cfg != nil && a.cfg.Get().Platform != "" {
		return a.cfg.Get().Platform
	}
	return platform.Current()
}

func (a *app) numberingMode() string {
	if a.mode != "" {
		return a.mode
	}
	if a.cfg != nil {
		return a.cfg.Get().NumberingMode
	}
	return ""
}

func (a *app) open() (gpio.GPIO, error) {
	desc := a.platformDescriptor()
	var opts []platform.Option
	if m := a.numberingMode(); m != "" {
		opts = append(opts, platform.WithNumberingMode(m))
	}
	g, err := a.resolver.Resolve(desc, opts...)
	if err != nil {
		return nil, err
	}
	a.log.Debugw("adapter ready", "platform", desc)
	return g, nil
}

func (a *app) pin(name string) gpio.Pin {
	if a.cfg != nil {
		return a.cfg.Get().Resolve(name)
	}
	return gpio.Pin(name)
}

func (a *app) platformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platform",
		Short: "Show the platform descriptor and the board family it selects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			desc := a.platformDescriptor()
			fmt.Fprintf(cmd.OutOrStdout(), "descriptor: %s\n", desc)
			f, err := a.resolver.Match(desc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "family: %s\n", f.Name)
			return nil
		},
	}
}

func (a *app) setupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup PIN in|out",
		Short: "Configure a pin as input or output",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			dir, err := gpio.ParseDirection(args[1])
			if err != nil {
				return err
			}
			g, err := a.open()
			if err != nil {
				return err
			}
			return g.Setup(a.pin(args[0]), dir)
		},
	}
}

func (a *app) writeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write PIN LEVEL",
		Short: "Drive an output pin high (1) or low (0)",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			v, err := gpio.ParseLevel(args[1])
			if err != nil {
				return err
			}
			g, err := a.open()
			if err != nil {
				return err
			}
			return g.Output(a.pin(args[0]), v)
		},
	}
}

func (a *app) levelCmd(name string, v gpio.Level) *cobra.Command {
	return &cobra.Command{
		Use:   name + " PIN",
		Short: "Drive an output pin " + name,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			g, err := a.open()
			if err != nil {
				return err
			}
			if v == gpio.High {
				return gpio.SetHigh(g, a.pin(args[0]))
			}
			return gpio.SetLow(g, a.pin(args[0]))
		},
	}
}

func (a *app) readCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read PIN",
		Short: "Print the level sensed on a pin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.open()
			if err != nil {
				return err
			}
			v, err := g.Input(a.pin(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the pins over the HTTPS control API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := a.open()
			if err != nil {
				return err
			}
			events := eventlog.New(a.cfg.Get().LogFile, a.log)
			srv, err := server.New(a.cfg, g, a.platformDescriptor(), events, a.log)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
}
