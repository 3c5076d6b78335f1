package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/krishpranav/nexa/internal/config"
	"github.com/krishpranav/nexa/internal/errors"
)

func serveCmd() *cobra.Command {
	var port int
	var dir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the build output locally",
		Long: `Serve the static build output over HTTP. Useful for checking what
nexa deploy would ship without touching the deployment target.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			cfg, err := config.Load(cwd)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.Build.Output
			}
			if _, err := os.Stat(dir); err != nil {
				return errors.New("E300").Wrap(err).
					WithSuggestion("run nexa build first")
			}

			r := chi.NewRouter()
			r.Use(middleware.Recoverer)
			r.Use(middleware.Timeout(30 * time.Second))
			r.Handle("/*", http.FileServer(http.Dir(dir)))

			addr := "localhost:" + strconv.Itoa(port)
			fmt.Printf("  serving %s on http://%s\n", dir, addr)
			return http.ListenAndServe(addr, r)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to serve (default: build output)")

	return cmd
}
