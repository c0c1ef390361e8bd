package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	dapp "github.com/pratikshakalbhor/stellar-whitebelt-dapp"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		listen, _ := cmd.Flags().GetString("listen")

		var s *session
		onBalance := func(address, balance string) {
			s.log.Info("balance refreshed", map[string]any{"address": address, "balance": balance})
		}

		s, err := openSession(cmd, dapp.WithBalanceHandler(onBalance))
		if err != nil {
			return err
		}
		defer s.Close()

		if listen == "" {
			listen = s.config.ListenAddr
		}

		r := gin.New()
		r.Use(gin.Recovery())
		if s.registry != nil {
			api.RegisterRoutes(r, s.dapp, s.registry)
		} else {
			api.RegisterRoutes(r, s.dapp, nil)
		}

		srv := &http.Server{
			Addr:              listen,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			s.log.Info("listening", map[string]any{"addr": listen, "network": string(s.config.Network)})
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "listen address (defaults to listen_addr)")
}
