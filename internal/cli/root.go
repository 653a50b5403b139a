package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sacsbd/sacs-tui/app"
	"github.com/sacsbd/sacs-tui/config"
	"github.com/sacsbd/sacs-tui/internal"
	"github.com/sacsbd/sacs-tui/internal/present"
	"github.com/sacsbd/sacs-tui/internal/refresher"
	"github.com/sacsbd/sacs-tui/internal/tty"
	"github.com/sacsbd/sacs-tui/views"
)

// Flags shared by every command.
var (
	configPath string
	serverName string
	plainMode  bool
)

var rootCmd = &cobra.Command{
	Use:   "sacs-tui",
	Short: "Live KPI dashboard for SACS_BD servers",
	Long: `sacs-tui shows the SACS_BD dashboard counters in the terminal and keeps
them current, refreshing every 30 seconds while the terminal has focus.

When stdout is not a terminal, or with --plain, one line is printed per
counter change instead.`,
	SilenceUsage: true,
	RunE:         runDashboard,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to config file")
	rootCmd.PersistentFlags().StringVar(&serverName, "server", "", "server profile name from config")
	rootCmd.Flags().BoolVar(&plainMode, "plain", false, "print counter changes as lines instead of the TUI")
}

// loadProfile reads the config file and picks the server profile.
func loadProfile() (*config.Config, string, config.ServerConfig, error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, "", config.ServerConfig{}, err
	}
	name, server, err := cfg.Select(serverName)
	if err != nil {
		return nil, "", config.ServerConfig{}, err
	}
	return cfg, name, server, nil
}

// openLog points the standard logger at path.
func openLog(path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	log.SetOutput(f)
	return f, nil
}

func userAgent() string {
	return "sacs-tui/" + version
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, name, server, err := loadProfile()
	if err != nil {
		return err
	}

	svc, err := internal.Connect(server, userAgent())
	if err != nil {
		return err
	}

	if plainMode || !term.IsTerminal(int(os.Stdout.Fd())) {
		return runPlain(cmd.Context(), svc, server)
	}

	logFile, err := openLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log.Printf("starting dashboard for %s (%s)", name, server.BaseURL)

	operator := ""
	if server.Operator != nil {
		operator = server.Operator.Name
	}
	root := app.New(app.Params{
		Services:       svc,
		ServerName:     name,
		KPIs:           server.KPIs,
		Interval:       server.RefreshInterval,
		Animation:      server.AnimationDuration,
		NotifyFailures: server.NotifyFailures,
		Operator:       operator,
		Logger:         log.Default(),
	})

	con, err := tty.Open()
	if err != nil {
		return err
	}
	vxApp, err := vxfw.NewApp(vaxis.Options{WithConsole: con})
	if err != nil {
		return err
	}
	root.SetPostEvent(vxApp.PostEvent)
	con.OnFocus(func(focused bool) {
		vxApp.PostEvent(views.VisibilityChanged{Visible: focused})
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if err := root.Start(ctx); err != nil {
		return err
	}
	defer root.Stop()

	return vxApp.Run(root)
}

// runPlain drives the refresher with the line presenter until interrupted.
func runPlain(ctx context.Context, svc *internal.Services, server config.ServerConfig) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := refresher.New(refresher.Params{
		Service:        svc.KPIs,
		Presenter:      present.NewPlain(os.Stdout, server.KPIs),
		Interval:       server.RefreshInterval,
		Logger:         log.New(os.Stderr, "", log.LstdFlags),
		NotifyFailures: true,
	})
	r.Refresh(ctx)
	if err := r.Start(ctx); err != nil {
		return err
	}
	defer r.Stop()

	<-ctx.Done()
	return nil
}
