package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/krishpranav/nexa/internal/config"
	"github.com/krishpranav/nexa/internal/dev"
	"github.com/krishpranav/nexa/pkg/host"
	"github.com/krishpranav/nexa/pkg/reactive"
	"github.com/krishpranav/nexa/pkg/vdom"
)

func devCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the development server",
		Long: `Start the development server: an SSR document shell at /, a live
WebSocket session endpoint at /ws, static output at /static/, and a
Prometheus endpoint when dev.metricsPath is configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			cfg, err := config.Load(cwd)
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Dev.Port = port
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			server := dev.NewServer(cfg, welcomeApp, logger)
			fmt.Printf("  nexa dev server on http://%s\n", cfg.Addr())
			return server.ListenAndServe()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Override the configured port")

	return cmd
}

// welcomeApp is the document served before a project wires its own
// root: a counter demonstrating the signal → diff → mutation loop.
// The factory runs once per session, so the signal belongs to that
// session's runtime; the returned thunk re-runs on every update.
func welcomeApp() host.App {
	count := reactive.NewSignal(0)
	return func() vdom.NodeID {
		return vdom.Element("div", []vdom.Attribute{vdom.Attr("class", "nexa-welcome")}, nil,
			vdom.Element("h1", nil, nil, vdom.Text("nexa is running")),
			vdom.Element("button", nil,
				[]vdom.Listener{vdom.On("click", func(vdom.Event) { count.Set(count.Peek() + 1) })},
				vdom.Text("clicks: "+strconv.Itoa(count.Get())),
			),
		)
	}
}
