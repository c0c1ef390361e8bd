package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/utils"
)

// EnvPrefix prefixes every environment override, e.g. DAPP_NETWORK.
const EnvPrefix = "DAPP"

// Load reads the configuration from path, which may be empty, then applies
// DAPP_* environment overrides on top of the defaults. A missing file is not
// an error.
func Load(path string) (*types.DappConfig, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("dapp")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, types.NewError(types.ErrConfigError, "failed to read config file", err)
		}
	}

	var cfg types.DappConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, types.NewError(types.ErrConfigError, "unable to decode config", err)
	}

	cfg.ImageIDs = normalizeList(cfg.ImageIDs, utils.NormalizeSymbol)
	cfg.DeclinePhrases = normalizeList(cfg.DeclinePhrases, strings.TrimSpace)

	if err := utils.ValidateStruct(&cfg); err != nil {
		return nil, types.NewError(types.ErrConfigError, "invalid config", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("network", string(types.DefaultNetwork))
	v.SetDefault("horizon_url", types.DefaultHorizonURL)
	v.SetDefault("soroban_rpc_url", types.DefaultSorobanRPCURL)
	v.SetDefault("contract_id", types.DefaultContractID)
	v.SetDefault("fee_mode", string(types.DefaultFeeMode))
	v.SetDefault("tx_timeout", types.DefaultTxTimeout)
	v.SetDefault("request_timeout", types.DefaultRequestTimeout)
	v.SetDefault("refresh_delay", types.DefaultRefreshDelay)
	v.SetDefault("explorer_url", types.DefaultExplorerURL)
	v.SetDefault("decline_phrases", []string{})
	v.SetDefault("image_ids", types.DefaultImageIDs)
	v.SetDefault("signer_url", "")
	v.SetDefault("listen_addr", types.DefaultListenAddr)
	v.SetDefault("log_level", types.DefaultLogLevel)
	v.SetDefault("enable_metrics", false)
}

// normalizeList applies fn to every entry and drops the empty ones.
func normalizeList(in []string, fn func(string) string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = fn(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
