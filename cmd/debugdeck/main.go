package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nicobailon/debugdeck/internal/config"
	"github.com/nicobailon/debugdeck/internal/deps"
	"github.com/nicobailon/debugdeck/internal/logging"
	"github.com/nicobailon/debugdeck/internal/navigator"
	"github.com/nicobailon/debugdeck/internal/panel"
	"github.com/nicobailon/debugdeck/internal/panels"
	"github.com/nicobailon/debugdeck/internal/registry"
	"github.com/nicobailon/debugdeck/internal/tui"
	"github.com/nicobailon/debugdeck/internal/tui/theme"
	"github.com/nicobailon/debugdeck/internal/tui/views"
	"github.com/nicobailon/debugdeck/pkg/version"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configFile  string
	demoFlag    bool
	versionFlag bool
	showWidth   int
	showHeight  int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "debugdeck",
	Short:        "Tabbed in-terminal debug panels",
	RunE:         runRoot,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ~/.config/debugdeck/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&demoFlag, "demo", false, "seed the console with sample log lines")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "v", false, "Show version")

	showCmd.Flags().IntVar(&showWidth, "width", 80, "frame width")
	showCmd.Flags().IntVar(&showHeight, "height", 20, "frame height")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}

func ensureDeps() error {
	missing := deps.Check()
	if len(missing) == 0 {
		return nil
	}
	for _, dep := range missing {
		fmt.Fprintf(os.Stderr, "Missing requirement: %s (%s)\n", dep.Name, deps.InstallHint(dep))
	}
	if deps.Blocking(missing) {
		return fmt.Errorf("missing required terminal capabilities")
	}
	return nil
}

// services is everything a command needs once config and logging are up.
type services struct {
	cfg      *config.Config
	log      zerolog.Logger
	reg      *registry.Registry
	sampler  *panels.FPSSampler
	closeLog io.Closer
}

func loadServices() (*services, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if !theme.Apply(cfg.Theme) {
		fmt.Fprintf(os.Stderr, "unknown theme %q, using %s (available: %s)\n",
			cfg.Theme, theme.DefaultName, strings.Join(theme.Names(), ", "))
	}

	console := panels.NewConsole(cfg.ConsoleCapacity)
	logger, closer, err := logging.Setup(logging.Options{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
		Sinks: []io.Writer{console},
	})
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	sampler := panels.NewFPSSampler(cfg.FPSRefreshInterval)
	reg := buildRegistry(console, sampler, cfg)
	if demoFlag {
		seedDemo(logger)
	}
	logger.Info().Str("version", version.Version).Int("frame_rate", cfg.FrameRate).Msg("debugger started")
	return &services{cfg: cfg, log: logger, reg: reg, sampler: sampler, closeLog: closer}, nil
}

func buildRegistry(console *panels.Console, sampler *panels.FPSSampler, cfg *config.Config) *registry.Registry {
	reg := registry.New()
	reg.MustRegister("Console", console)
	reg.MustRegister("Profiler/FPS", panels.NewFPSPanel(sampler))
	reg.MustRegister("Profiler/Memory", panels.NewMemoryPanel(cfg.FPSRefreshInterval))
	reg.MustRegister("Information/System", panels.NewSystemPanel())
	return reg
}

func seedDemo(log zerolog.Logger) {
	log.Info().Str("scene", "main").Msg("scene loaded")
	log.Debug().Int("entities", 128).Msg("spawned entities")
	log.Warn().Dur("frame_time", 41*time.Millisecond).Msg("slow frame")
	log.Error().Err(errors.New("texture not found")).Str("asset", "player.png").Msg("asset load failed")
	log.Info().Msg("ready")
}

func runRoot(cmd *cobra.Command, args []string) error {
	if versionFlag {
		fmt.Println(version.Version)
		return nil
	}
	if err := ensureDeps(); err != nil {
		return err
	}
	svc, err := loadServices()
	if err != nil {
		return err
	}
	defer svc.closeLog.Close()

	app := tui.New(tui.Deps{
		Registry: svc.reg,
		Cfg:      svc.cfg,
		Sampler:  svc.sampler,
		Log:      svc.log,
	})
	if err := app.Run(); err != nil {
		svc.log.Error().Err(err).Msg("debugger stopped")
		return err
	}
	svc.log.Info().Msg("debugger stopped")
	return nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the registered panel tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := loadServices()
		if err != nil {
			return err
		}
		defer svc.closeLog.Close()
		return listAction(cmd.OutOrStdout(), svc.reg)
	},
}

func listAction(w io.Writer, reg *registry.Registry) error {
	return reg.Walk(func(segments []string, e panel.Entry, depth int) error {
		name := e.Name
		if e.IsGroup() {
			name += "/"
		}
		_, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), name)
		return err
	})
}

var showCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Render one frame of a panel and print it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := loadServices()
		if err != nil {
			return err
		}
		defer svc.closeLog.Close()
		return showAction(cmd.OutOrStdout(), svc, args[0], showWidth, showHeight)
	},
}

// showAction selects path and prints the strips and body of a single frame.
func showAction(w io.Writer, svc *services, path string, width, height int) error {
	if _, err := svc.reg.Lookup(path); err != nil {
		return err
	}

	var strips []string
	strip := navigator.TabStripFunc(func(depth int, labels []string, selected int) int {
		closeIdx := -1
		if depth == 0 {
			closeIdx = len(labels) - 1
		}
		strips = append(strips, views.RenderTabs(views.TabRow{
			Labels:   labels,
			Selected: selected,
			Close:    closeIdx,
		}, width))
		return selected
	})
	nav := navigator.New(strip,
		navigator.WithCloseLabel(svc.cfg.CloseLabel),
		navigator.WithLogger(svc.log))

	root := svc.reg.Root()
	if err := nav.SelectPath(root, path); err != nil {
		return err
	}
	f := panel.NewFrame(width, height)
	f.Number = 1
	res, err := nav.RenderFrame(root, f)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, strings.Join(res.Path, " › "))
	for _, s := range strips {
		fmt.Fprintln(w, s)
	}
	fmt.Fprintln(w, strings.Repeat("─", max(width, 1)))
	_, err = io.WriteString(w, f.String())
	return err
}
