package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docportal/internal/logging"
	"github.com/ziadkadry99/docportal/internal/portal"
	"github.com/ziadkadry99/docportal/internal/server"
	"github.com/ziadkadry99/docportal/internal/visits"
)

var (
	servePort     int
	serveNoVisits bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portal web server",
	Long:  `Starts the portal: the page shell, the content files, the navigation WebSocket and the REST API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}

		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}
		router, links := buildRouter(cfg, cat, newFetcher(cfg))

		database, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAllOrigins,
		}, database)

		opts := portal.Options{
			Catalog:        cat,
			Router:         router,
			Links:          links,
			ContentDir:     cfg.ContentDir,
			ContentBaseURL: cfg.ContentBaseURL,
			Idle:           cfg.SessionIdle(),
			RequestTimeout: cfg.FetchTimeout() + 5*time.Second,
			Log:            logging.For("portal"),
		}
		if !serveNoVisits {
			store := visits.NewStore(database)
			opts.Visits = store
			visits.RegisterRoutes(srv.Router(), store)
		}
		p := portal.New(opts)
		p.RegisterRoutes(srv.Router())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go p.Janitor(ctx, time.Minute)
		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "docportal %s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Catalog: %s (%d sections, default %q)\n", cfg.CatalogFile, len(cat.Sections()), cat.Default().Key)
		if cfg.ContentBaseURL != "" {
			fmt.Fprintf(os.Stderr, "  Content: %s\n", cfg.ContentBaseURL)
		} else {
			fmt.Fprintf(os.Stderr, "  Content: %s\n", cfg.ContentDir)
		}
		fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveNoVisits, "no-visits", false, "do not record sessions and navigation")
	rootCmd.AddCommand(serveCmd)
}
