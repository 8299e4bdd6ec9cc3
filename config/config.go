package config

/*
 * Dual-licensed under Apache-2.0 and MIT.
 *
 * You can get a copy of the Apache License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * You can also get a copy of the MIT License at
 *
 * http://opensource.org/licenses/MIT
 *
 * @wcgcyx - https://github.com/wcgcyx
 */

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultPath          = ".floormkt"
	defaultAPIPort       = 9424
	defaultCacheSize     = 1024
	defaultCacheTTL      = 5 * time.Minute
	defaultMarketAddress = "0x000000000000000000000000000000000000f100"
	defaultMinimumOffer  = "0.01"
)

// Configuration for floor market node.
type Config struct {
	// Path
	Path string `mapstructure:"FLOORMKT_PATH"` // Floor market datastore path.

	// Port
	APIPort uint64 `mapstructure:"FLOORMKT_API_PORT"` // Floor market API port.

	// API Server settings
	APIServerLoggingLevel string `mapstructure:"APISERVER_LOGGING_LEVEL"` // Log Level: FATAL, PANIC, ERROR, WARN, INFO, DEBUG.
	APIDevMode            bool   `mapstructure:"APISERVER_DEV_MODE"`      // Server DEV API enabled: True, False.

	// Market settings
	MarketLoggingLevel     string `mapstructure:"MARKET_LOGGING_LEVEL"`     // Log Level: FATAL, PANIC, ERROR, WARN, INFO, DEBUG.
	MarketAddress          string `mapstructure:"MARKET_ADDRESS"`           // Address the market acts as on chain.
	MarketOwner            string `mapstructure:"MARKET_OWNER"`             // Initial owner of the market config.
	MarketFeeAddress       string `mapstructure:"MARKET_FEE_ADDRESS"`       // Initial market fee address.
	MarketMinimumOffer     string `mapstructure:"MARKET_MINIMUM_OFFER"`     // Initial minimum offer in ether.
	RoyaltyResolverAddress string `mapstructure:"ROYALTY_RESOLVER_ADDRESS"` // Initial royalty registry address (empty for none).

	// Ledger settings
	LedgerLoggingLevel string `mapstructure:"LEDGER_LOGGING_LEVEL"` // Log Level: FATAL, PANIC, ERROR, WARN, INFO, DEBUG.

	// Offer book settings
	OfferBookLoggingLevel string `mapstructure:"OFFERBOOK_LOGGING_LEVEL"` // Log Level: FATAL, PANIC, ERROR, WARN, INFO, DEBUG.

	// Admin settings
	AdminLoggingLevel string `mapstructure:"ADMIN_LOGGING_LEVEL"` // Log Level: FATAL, PANIC, ERROR, WARN, INFO, DEBUG.

	// History settings
	HistoryLoggingLevel string `mapstructure:"HISTORY_LOGGING_LEVEL"` // Log Level: FATAL, PANIC, ERROR, WARN, INFO, DEBUG.

	// Royalty settings
	RoyaltyLoggingLevel string        `mapstructure:"ROYALTY_LOGGING_LEVEL"` // Log Level: FATAL, PANIC, ERROR, WARN, INFO, DEBUG.
	RoyaltyAPI          string        `mapstructure:"ROYALTY_API"`           // Royalty oracle api address (empty for local table).
	RoyaltyAuthToken    string        `mapstructure:"ROYALTY_AUTH_TOKEN"`    // Royalty oracle auth token.
	RoyaltyCacheSize    uint64        `mapstructure:"ROYALTY_CACHE_SIZE"`    // Royalty cache size.
	RoyaltyCacheTTL     time.Duration `mapstructure:"ROYALTY_CACHE_TTL"`     // Royalty cache entry lifetime.

	// Chain settings
	ChainLoggingLevel string `mapstructure:"CHAIN_LOGGING_LEVEL"` // Log Level: FATAL, PANIC, ERROR, WARN, INFO, DEBUG.
	ChainAPI          string `mapstructure:"CHAIN_API"`           // Chain gateway api address (empty for in-process mock chain).
	ChainAuthToken    string `mapstructure:"CHAIN_AUTH_TOKEN"`    // Chain gateway auth token.
}

// NewConfig creates a new configuration.
//
// @output - configuration, error.
func NewConfig(configFile string) (Config, error) {
	// Try to load config file from $HOME/.floormkt
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.floormkt")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	}
	err := viper.ReadInConfig()
	if err != nil {
		return Config{}, err
	}
	// Parse path
	path := viper.GetString("FLOORMKT_PATH")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		path = filepath.Join(home, defaultPath)
	}

	// Parse api port
	apiPort := viper.GetInt("FLOORMKT_API_PORT")
	if apiPort <= 0 {
		apiPort = defaultAPIPort
	}

	// Parse market address
	marketAddr := viper.GetString("MARKET_ADDRESS")
	if marketAddr == "" {
		marketAddr = defaultMarketAddress
	}

	// Parse minimum offer
	minimum := viper.GetString("MARKET_MINIMUM_OFFER")
	if minimum == "" {
		minimum = defaultMinimumOffer
	}

	// Parse royalty cache
	cacheSize := viper.GetInt("ROYALTY_CACHE_SIZE")
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cacheTTL := viper.GetDuration("ROYALTY_CACHE_TTL")
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	// Parse the rest options and return.
	return Config{
		Path:                   path,
		APIPort:                uint64(apiPort),
		APIServerLoggingLevel:  viper.GetString("APISERVER_LOGGING_LEVEL"),
		APIDevMode:             viper.GetBool("APISERVER_DEV_MODE"),
		MarketLoggingLevel:     viper.GetString("MARKET_LOGGING_LEVEL"),
		MarketAddress:          marketAddr,
		MarketOwner:            viper.GetString("MARKET_OWNER"),
		MarketFeeAddress:       viper.GetString("MARKET_FEE_ADDRESS"),
		MarketMinimumOffer:     minimum,
		RoyaltyResolverAddress: viper.GetString("ROYALTY_RESOLVER_ADDRESS"),
		LedgerLoggingLevel:     viper.GetString("LEDGER_LOGGING_LEVEL"),
		OfferBookLoggingLevel:  viper.GetString("OFFERBOOK_LOGGING_LEVEL"),
		AdminLoggingLevel:      viper.GetString("ADMIN_LOGGING_LEVEL"),
		HistoryLoggingLevel:    viper.GetString("HISTORY_LOGGING_LEVEL"),
		RoyaltyLoggingLevel:    viper.GetString("ROYALTY_LOGGING_LEVEL"),
		RoyaltyAPI:             viper.GetString("ROYALTY_API"),
		RoyaltyAuthToken:       viper.GetString("ROYALTY_AUTH_TOKEN"),
		RoyaltyCacheSize:       uint64(cacheSize),
		RoyaltyCacheTTL:        cacheTTL,
		ChainLoggingLevel:      viper.GetString("CHAIN_LOGGING_LEVEL"),
		ChainAPI:               viper.GetString("CHAIN_API"),
		ChainAuthToken:         viper.GetString("CHAIN_AUTH_TOKEN"),
	}, nil
}
