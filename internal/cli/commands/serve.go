package commands

import (
	"context"
	"encoding/hex"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/gorilla/securecookie"
	"github.com/leapstack-labs/leapcalc/internal/ui"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Open bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web calculator",
		Long: `Start a local web server with a button and keyboard driven calculator.

Each browser keeps its own input in a session cookie. Calculations are recorded
in the shared history, and open history panels update live when another
process writes to the history database.`,
		Example: `  # Start on the default port
  leapcalc serve

  # Start on a custom port and open a browser
  leapcalc serve --port 3000 --open`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().Int("port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().Bool("watch", true, "Push history changes made by other processes")
	cmd.Flags().String("session-secret", "", "Secret used to sign session cookies (default: random per run)")
	cmd.Flags().BoolVar(&opts.Open, "open", false, "Open the calculator in a browser")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := cmdCtx.Cfg
	secret := cfg.UI.SessionSecret
	if secret == "" {
		secret = hex.EncodeToString(securecookie.GenerateRandomKey(32))
		cmdCtx.Logger.Debug("generated session secret; sessions end when the server stops")
	}

	server := ui.NewServer(ui.Config{
		Calculator:    cmdCtx.Calc,
		HistoryPath:   cfg.HistoryPath,
		Port:          cfg.UI.Port,
		Watch:         cfg.UI.Watch,
		SessionSecret: secret,
		Logger:        cmdCtx.Logger,
	})

	url := fmt.Sprintf("http://localhost:%d", cfg.UI.Port)
	if opts.Open {
		go openBrowser(url)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Starting calculator on %s\n", url)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
