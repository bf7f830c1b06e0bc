package config

import (
	"encoding/json"
	"os"
	"strings"
	"time"
)

// Page identifies a top-level screen of the client
type Page int

const (
	PageHome Page = iota
	PageAccounts
	PageNetworks
	PageClaim
	PageAllocate
	PageReclaim
)

// Pages lists the panel pages in navigation order
var Pages = []Page{PageAccounts, PageNetworks, PageClaim, PageAllocate, PageReclaim}

func (p Page) String() string {
	switch p {
	case PageHome:
		return "Home"
	case PageAccounts:
		return "Accounts"
	case PageNetworks:
		return "Networks"
	case PageClaim:
		return "Claim"
	case PageAllocate:
		return "Allocate"
	case PageReclaim:
		return "Reclaim"
	}
	return "Unknown"
}

// Config represents the application configuration
type Config struct {
	BackendURL      string        `json:"backend_url"`
	Networks        []Network     `json:"networks"`
	Wallets         []WalletEntry `json:"wallets"`
	RewardsContract string        `json:"rewards_contract"`
	Token           Token         `json:"token"`
	Logger          bool          `json:"logger"`
	TimeoutSeconds  int           `json:"timeout_seconds,omitempty"`
}

// Network represents a ledger environment and its RPC endpoint
type Network struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Explorer string `json:"explorer,omitempty"`
	Active   bool   `json:"active"`
}

// WalletEntry represents a wallet in the config
type WalletEntry struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
	Active  bool   `json:"active"`
}

// Token describes the reward token allocations are paid in
type Token struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// Timeout returns the per-request timeout
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads the config from the specified path
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}

	return cfg
}

// Save writes the config to the specified path
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns a new configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		BackendURL: "http://127.0.0.1:8000",
		Networks: []Network{
			{
				Name:     "Sepolia",
				URL:      "https://ethereum-sepolia-rpc.publicnode.com",
				Explorer: "https://sepolia.etherscan.io",
				Active:   true,
			},
			{
				Name:     "Mainnet",
				URL:      "https://ethereum-rpc.publicnode.com",
				Explorer: "https://etherscan.io",
			},
		},
		Wallets: []WalletEntry{},
		Token: Token{
			Symbol:   "RWD",
			Decimals: 6,
		},
		Logger: false,
	}
}

// LoadOrCreate loads config from path, or creates a default one if not found
func LoadOrCreate(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		cfg := DefaultConfig()
		_ = Save(path, cfg)
		return cfg
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		// Invalid config, return default
		return DefaultConfig()
	}

	return cfg
}

// ApplyEnv overrides endpoint settings from the environment.
// ETH_RPC_URL replaces the active network's endpoint, or creates one when
// no network is configured.
func ApplyEnv(cfg Config) Config {
	if backend := strings.TrimSpace(os.Getenv("REWARDS_API_URL")); backend != "" {
		cfg.BackendURL = backend
	}

	rpcFromEnv := strings.TrimSpace(os.Getenv("ETH_RPC_URL"))
	if rpcFromEnv == "" {
		return cfg
	}
	if len(cfg.Networks) == 0 {
		cfg.Networks = []Network{{Name: "Default", URL: rpcFromEnv, Active: true}}
		return cfg
	}

	networks := make([]Network, len(cfg.Networks))
	copy(networks, cfg.Networks)
	idx := 0
	for i, n := range networks {
		if n.Active {
			idx = i
			break
		}
	}
	networks[idx].URL = rpcFromEnv
	networks[idx].Active = true
	cfg.Networks = networks
	return cfg
}
