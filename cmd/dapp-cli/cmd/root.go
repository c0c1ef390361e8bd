package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	dapp "github.com/pratikshakalbhor/stellar-whitebelt-dapp"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/config"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/logger"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/metrics"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/signer"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
)

// SecretEnv holds the secret seed of the local signing key.
const SecretEnv = "DAPP_SECRET"

var (
	configPath string
	signerURL  string
)

var rootCmd = &cobra.Command{
	Use:   "dapp-cli",
	Short: "Stellar payment and NFT mint pipeline",
	Long: `Builds, simulates, signs and submits Stellar transactions.

Transactions are signed by a JSON-RPC wallet bridge (--signer-url) or by
the local key in $DAPP_SECRET.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./dapp.yaml)")
	rootCmd.PersistentFlags().StringVar(&signerURL, "signer-url", "", "JSON-RPC signing bridge URL")
}

// session is a configured pipeline plus what has to be released with it.
type session struct {
	config   *types.DappConfig
	dapp     *dapp.Dapp
	log      *logger.ZapLogger
	registry *prometheus.Registry

	// address of the local key, empty when signing remotely
	address string
	closers []func()
}

func (s *session) Close() {
	s.dapp.Close()
	for _, c := range s.closers {
		c()
	}
	s.log.Sync()
}

func openSession(cmd *cobra.Command, extra ...dapp.Option) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	s := &session{
		config: cfg,
		log:    logger.NewZapLogger(cfg.LogLevel),
	}

	opts := []dapp.Option{dapp.WithLogger(s.log)}

	if cfg.EnableMetrics {
		s.registry = prometheus.NewRegistry()
		recorder, err := metrics.NewPrometheusRecorder(s.registry)
		if err != nil {
			return nil, err
		}
		opts = append(opts, dapp.WithMetrics(recorder))
	}

	url := signerURL
	if url == "" {
		url = cfg.SignerURL
	}

	switch {
	case url != "":
		agent, err := signer.NewRPCAgent(cmd.Context(), url)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, agent.Close)
		opts = append(opts, dapp.WithAgent(agent))
	case os.Getenv(SecretEnv) != "":
		agent, err := signer.NewKeypairAgent(os.Getenv(SecretEnv))
		if err != nil {
			return nil, err
		}
		s.address = agent.Address()
		opts = append(opts, dapp.WithAgent(agent))
	}

	d, err := dapp.New(cfg, append(opts, extra...)...)
	if err != nil {
		for _, c := range s.closers {
			c()
		}
		return nil, err
	}
	s.dapp = d

	return s, nil
}

// source returns flag, or the local key's address when flag is empty
func (s *session) source(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if s.address != "" {
		return s.address, nil
	}
	return "", fmt.Errorf("no source account: pass --from or set %s", SecretEnv)
}

func printOutcome(cmd *cobra.Command, s *session, out types.Outcome) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}

	if out.IsSuccess() {
		fmt.Fprintf(cmd.OutOrStdout(), "explorer: %s\n", s.dapp.ExplorerURL(out.Hash))
	}
	if out.IsFailed() {
		return fmt.Errorf("transaction failed: %s", out.Reason)
	}
	return nil
}
