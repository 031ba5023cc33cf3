package skillmesh

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillmesh/skillmesh/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, client, err := loadAll()
		if err != nil {
			return err
		}
		defer client.Close()

		reindexOnStart, _ := cmd.Flags().GetBool("reindex")
		if reindexOnStart {
			if _, err := client.Reindex(cmd.Context(), false); err != nil {
				return err
			}
		}

		srv := server.New(cfg, client, log)
		srv.Setup()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-quit:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Stop(ctx)
		}
	},
}

func init() {
	serveCmd.Flags().Bool("reindex", true, "reindex the corpus before serving")
	rootCmd.AddCommand(serveCmd)
}
