package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshpeak/claude-sessions/internal/config"
	"github.com/joshpeak/claude-sessions/internal/project"
	"github.com/joshpeak/claude-sessions/internal/server"
	"github.com/joshpeak/claude-sessions/internal/watch"
)

const watchDebounce = 2 * time.Second

func newServeCmd() *cobra.Command {
	var (
		host        string
		port        int
		projectsDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analytics API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if host != "" {
				cfg.Host = host
			}
			if port != 0 {
				cfg.Port = port
			}
			if projectsDir != "" {
				cfg.ProjectsDir = projectsDir
			}
			return serve(cfg)
		},
	}

	cmd.Flags().StringVar(&host, "host", "",
		"Listen address (env: BACKEND_HOST)")
	cmd.Flags().IntVar(&port, "port", 0,
		"Listen port (env: BACKEND_PORT)")
	cmd.Flags().StringVar(&projectsDir, "projects", "",
		"Projects directory (env: PROJECTS_PATH)")
	return cmd
}

func serve(cfg config.Config) error {
	dir, err := cfg.EffectiveProjectsDir()
	if err != nil {
		return err
	}

	resolver, err := project.NewResolver(dir)
	if err != nil {
		return err
	}

	// Resolutions are cached; drop them whenever session data on
	// disk changes so new projects show up without a restart.
	watcher, err := watch.NewWatcher(
		watchDebounce, func([]string) { resolver.ClearCache() },
	)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	watched, unwatched, err := watcher.WatchRecursive(dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	if unwatched > 0 {
		log.Printf(
			"watching %d directories (%d failed)",
			watched, unwatched,
		)
	}
	watcher.Start()
	defer watcher.Stop()

	srv := server.New(cfg, resolver)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Printf("received %v, shutting down", sig)
		ctx, cancel := context.WithTimeout(
			context.Background(), 5*time.Second,
		)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
