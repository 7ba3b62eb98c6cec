package config

import (
	"github.com/spf13/viper"

	"github.com/z1shivam/blocklift/internal/logger"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	Price    PriceConfig    `mapstructure:"price"`
	AI       AIConfig       `mapstructure:"ai"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ChainConfig describes the network endpoint and the deployed crowdfunding
// contract. The contract address is always externally supplied, never a
// compiled-in constant.
type ChainConfig struct {
	ChainId       int64  `mapstructure:"chain_id"`
	RpcUrl        string `mapstructure:"rpc_url"`        // HTTP JSON-RPC endpoint
	WsUrl         string `mapstructure:"ws_url"`         // websocket endpoint for event subscriptions
	ContractAddr  string `mapstructure:"contract_addr"`  // deployed BlockLift contract
	Confirmations int    `mapstructure:"confirmations"`  // blocks to wait beyond inclusion
	FetchWorkers  int    `mapstructure:"fetch_workers"`  // pool size for bulk campaign reads
}

// WalletConfig lists the server-held signing accounts.
type WalletConfig struct {
	PrivateKeys []string `mapstructure:"private_keys"` // hex-encoded, 0x prefix optional
}

type PriceConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Currency  string `mapstructure:"currency"`
	CacheFile string `mapstructure:"cache_file"`
	TTL       int    `mapstructure:"ttl"` // seconds
}

type AIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"` // stdout, file
	File   string `mapstructure:"file"`
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/blocklift")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "blocklift")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("chain.chain_id", 11155111) // Sepolia
	viper.SetDefault("chain.rpc_url", "http://localhost:8545")
	viper.SetDefault("chain.confirmations", 1)
	viper.SetDefault("chain.fetch_workers", 8)
	viper.SetDefault("price.base_url", "https://api.coingecko.com/api/v3")
	viper.SetDefault("price.currency", "inr")
	viper.SetDefault("price.cache_file", "crypto_cache.json")
	viper.SetDefault("price.ttl", 3600)
	viper.SetDefault("ai.base_url", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("ai.model", "gemini-2.0-flash")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
