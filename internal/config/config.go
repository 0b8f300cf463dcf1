// Package config loads the sentinel configuration from YAML, .env and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Discovery modes.
const (
	ModePoll      = "poll"
	ModeSubscribe = "subscribe"
)

// Config is the root configuration structure.
type Config struct {
	General    GeneralConfig    `yaml:"general"`
	Solana     SolanaConfig     `yaml:"solana"`
	Discovery  DiscoveryConfig  `yaml:"discovery"`
	Gatekeeper GatekeeperConfig `yaml:"gatekeeper"`
	Trigger    TriggerConfig    `yaml:"trigger"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Position   PositionConfig   `yaml:"position"`
	Market     MarketConfig     `yaml:"market"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Redis      RedisConfig      `yaml:"redis"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

type GeneralConfig struct {
	LogLevel          string        `yaml:"log_level"`
	LogFormat         string        `yaml:"log_format"` // json|text
	LogFile           string        `yaml:"log_file"`
	LogMaxSizeMB      int           `yaml:"log_max_size_mb"`
	LogMaxAgeDays     int           `yaml:"log_max_age_days"`
	UseMemory         bool          `yaml:"use_memory"`
	MetricsAddr       string        `yaml:"metrics_addr"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
}

type SolanaConfig struct {
	RPCURL     string `yaml:"rpc_url"`
	WSURL      string `yaml:"ws_url"`
	Commitment string `yaml:"commitment"`
	MaxRetries int    `yaml:"max_retries"`
}

type DiscoveryConfig struct {
	Mode         string         `yaml:"mode"` // poll|subscribe
	Program      string         `yaml:"program"`
	Marker       string         `yaml:"marker"`
	Limit        int            `yaml:"limit"`
	Layout       string         `yaml:"layout"`
	Offsets      *OffsetsConfig `yaml:"offsets"` // overrides the layout offsets when set
	Interval     time.Duration  `yaml:"interval"`
	ErrorBackoff time.Duration  `yaml:"error_backoff"`
}

// OffsetsConfig positions of pool accounts in the filtered key list.
type OffsetsConfig struct {
	LP            int `yaml:"lp"`
	MintA         int `yaml:"mint_a"`
	MintB         int `yaml:"mint_b"`
	TokenAccountA int `yaml:"token_account_a"`
	TokenAccountB int `yaml:"token_account_b"`
	MinKeys       int `yaml:"min_keys"`
}

type GatekeeperConfig struct {
	NativeMint      string          `yaml:"native_mint"`
	MinLiquidityUSD float64         `yaml:"min_liquidity_usd"`
	Rules           map[string]bool `yaml:"rules"` // placeholder rule name -> enabled
}

type TriggerConfig struct {
	Interval            time.Duration `yaml:"interval"`
	EmptyInterval       time.Duration `yaml:"empty_interval"`
	ErrorBackoff        time.Duration `yaml:"error_backoff"`
	ActivationThreshold int           `yaml:"activation_threshold"`
	MQSThreshold        int           `yaml:"mqs_threshold"`
	MomentumBonus       int           `yaml:"momentum_bonus"`
	InsiderBonus        int           `yaml:"insider_bonus"`
	SmartMoneyBonus     int           `yaml:"smart_money_bonus"`
	WatchTTL            time.Duration `yaml:"watch_ttl"` // negative disables expiry
}

type ScoringConfig struct {
	MaxTop10Share        float64 `yaml:"max_top10_share"` // percent
	ConcentrationPenalty int     `yaml:"concentration_penalty"`
	ConfidenceMin        int     `yaml:"confidence_min"`
	HighConfidenceMin    int     `yaml:"high_confidence_min"`
}

type PositionConfig struct {
	Interval          time.Duration `yaml:"interval"`
	ErrorBackoff      time.Duration `yaml:"error_backoff"`
	TakeProfitPct     float64       `yaml:"take_profit_pct"`
	StopLossPct       float64       `yaml:"stop_loss_pct"`
	ConfidenceUSD     float64       `yaml:"confidence_usd"`
	HighConfidenceUSD float64       `yaml:"high_confidence_usd"`
}

type MarketConfig struct {
	DexScreenerURL string        `yaml:"dexscreener_url"`
	BirdeyeURL     string        `yaml:"birdeye_url"`
	BirdeyeAPIKey  string        `yaml:"birdeye_api_key"`
	CoinGeckoURL   string        `yaml:"coingecko_url"`
	GoPlusURL      string        `yaml:"goplus_url"`
	Timeout        time.Duration `yaml:"timeout"`
	RetryCount     int           `yaml:"retry_count"`
}

type TelegramConfig struct {
	Enabled     bool          `yaml:"enabled"`
	BotToken    string        `yaml:"bot_token"`
	ChatID      string        `yaml:"chat_id"`
	ServerURL   string        `yaml:"server_url"`
	SendTimeout time.Duration `yaml:"send_timeout"` // zero uses the notifier default
}

type RedisConfig struct {
	URL    string `yaml:"url"`
	HotKey string `yaml:"hot_key"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type ClickHouseConfig struct {
	DSN string `yaml:"dsn"` // empty keeps position marks in memory
}

// Load reads .env, parses the YAML file at path (if any), applies
// environment overrides and defaults. It does not validate.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

// applyEnv overrides secrets and endpoints from the environment.
func applyEnv(cfg *Config) {
	setString(&cfg.Solana.RPCURL, "SOLANA_RPC_URL", "QUICKNODE_RPC_URL")
	setString(&cfg.Solana.WSURL, "SOLANA_WS_URL", "QUICKNODE_WSS_URL")
	setString(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	setString(&cfg.Redis.URL, "REDIS_URL")
	setString(&cfg.Postgres.DSN, "POSTGRES_DSN")
	setString(&cfg.ClickHouse.DSN, "CLICKHOUSE_DSN")
	setString(&cfg.Market.CoinGeckoURL, "COINGECKO_API_URL")
	setString(&cfg.Market.GoPlusURL, "GOPLUS_API_URL")
	setString(&cfg.Market.DexScreenerURL, "DEXSCREENER_API_URL")
	setString(&cfg.Market.BirdeyeAPIKey, "BIRDEYE_API_KEY")

	if v := os.Getenv("USE_MEMORY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.General.UseMemory = b
		}
	}
}

// setString sets *dst from the first non-empty variable in keys.
func setString(dst *string, keys ...string) {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			*dst = v
			return
		}
	}
}

func applyDefaults(cfg *Config) {
	g := &cfg.General
	if g.LogLevel == "" {
		g.LogLevel = "info"
	}
	if g.LogFormat == "" {
		g.LogFormat = "text"
	}
	if g.LogFile == "" {
		g.LogFile = "logs/sentinel.log"
	}
	if g.LogMaxSizeMB == 0 {
		g.LogMaxSizeMB = 10
	}
	if g.LogMaxAgeDays == 0 {
		g.LogMaxAgeDays = 7
	}
	if g.MetricsAddr == "" {
		g.MetricsAddr = ":9090"
	}
	if g.HeartbeatInterval == 0 {
		g.HeartbeatInterval = 60 * time.Second
	}

	if cfg.Solana.Commitment == "" {
		cfg.Solana.Commitment = "confirmed"
	}
	if cfg.Solana.MaxRetries == 0 {
		cfg.Solana.MaxRetries = 3
	}

	d := &cfg.Discovery
	if d.Mode == "" {
		d.Mode = ModePoll
	}
	if d.Program == "" {
		d.Program = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	}
	if d.Marker == "" {
		d.Marker = "initialize2"
	}
	if d.Limit == 0 {
		d.Limit = 25
	}
	if d.Layout == "" {
		d.Layout = "raydium-amm-v4/initialize2@1"
	}
	if d.Interval == 0 {
		d.Interval = 10 * time.Second
	}
	if d.ErrorBackoff == 0 {
		d.ErrorBackoff = 20 * time.Second
	}

	gk := &cfg.Gatekeeper
	if gk.NativeMint == "" {
		gk.NativeMint = "So11111111111111111111111111111111111111112"
	}
	if gk.MinLiquidityUSD == 0 {
		gk.MinLiquidityUSD = 15000
	}
	if gk.Rules == nil {
		gk.Rules = map[string]bool{}
	}
	for _, name := range PlaceholderRules {
		if _, ok := gk.Rules[name]; !ok {
			gk.Rules[name] = true
		}
	}

	t := &cfg.Trigger
	if t.Interval == 0 {
		t.Interval = 60 * time.Second
	}
	if t.EmptyInterval == 0 {
		t.EmptyInterval = 15 * time.Second
	}
	if t.ErrorBackoff == 0 {
		t.ErrorBackoff = 120 * time.Second
	}
	if t.ActivationThreshold == 0 {
		t.ActivationThreshold = 4
	}
	if t.MQSThreshold == 0 {
		t.MQSThreshold = 75
	}
	if t.MomentumBonus == 0 {
		t.MomentumBonus = 4
	}
	if t.InsiderBonus == 0 {
		t.InsiderBonus = 5
	}
	if t.SmartMoneyBonus == 0 {
		t.SmartMoneyBonus = 3
	}
	if t.WatchTTL == 0 {
		t.WatchTTL = 6 * time.Hour
	}

	s := &cfg.Scoring
	if s.MaxTop10Share == 0 {
		s.MaxTop10Share = 30
	}
	if s.ConcentrationPenalty == 0 {
		s.ConcentrationPenalty = 20
	}
	if s.ConfidenceMin == 0 {
		s.ConfidenceMin = 70
	}
	if s.HighConfidenceMin == 0 {
		s.HighConfidenceMin = 85
	}

	p := &cfg.Position
	if p.Interval == 0 {
		p.Interval = 120 * time.Second
	}
	if p.ErrorBackoff == 0 {
		p.ErrorBackoff = 240 * time.Second
	}
	if p.TakeProfitPct == 0 {
		p.TakeProfitPct = 150
	}
	if p.StopLossPct == 0 {
		p.StopLossPct = -50
	}
	if p.ConfidenceUSD == 0 {
		p.ConfidenceUSD = 25
	}
	if p.HighConfidenceUSD == 0 {
		p.HighConfidenceUSD = 50
	}

	m := &cfg.Market
	if m.DexScreenerURL == "" {
		m.DexScreenerURL = "https://api.dexscreener.com"
	}
	if m.BirdeyeURL == "" {
		m.BirdeyeURL = "https://public-api.birdeye.so"
	}
	if m.CoinGeckoURL == "" {
		m.CoinGeckoURL = "https://api.coingecko.com/api/v3"
	}
	if m.GoPlusURL == "" {
		m.GoPlusURL = "https://api.gopluslabs.io/api/v1/solana/token_security"
	}
	if m.Timeout == 0 {
		m.Timeout = 10 * time.Second
	}
	if m.RetryCount == 0 {
		m.RetryCount = 2
	}

	if cfg.Redis.HotKey == "" {
		cfg.Redis.HotKey = "hot_watchlist"
	}
}

// PlaceholderRules are the always-pass gatekeeper rules, in chain order.
var PlaceholderRules = []string{"honeypot", "transfer_tax", "contract_verification", "holder_decentralization"}

// Validate checks required fields and numeric sanity. All problems are reported.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Solana.RPCURL == "" {
		add("solana.rpc_url is required (SOLANA_RPC_URL)")
	}
	switch c.Discovery.Mode {
	case ModePoll:
	case ModeSubscribe:
		if c.Solana.WSURL == "" {
			add("solana.ws_url is required in subscribe mode (SOLANA_WS_URL)")
		}
	default:
		add("discovery.mode must be %q or %q, got %q", ModePoll, ModeSubscribe, c.Discovery.Mode)
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			add("telegram.bot_token is required when telegram is enabled (TELEGRAM_BOT_TOKEN)")
		}
		if c.Telegram.ChatID == "" {
			add("telegram.chat_id is required when telegram is enabled (TELEGRAM_CHAT_ID)")
		}
	}
	if !c.General.UseMemory {
		if c.Redis.URL == "" {
			add("redis.url is required unless use_memory (REDIS_URL)")
		}
		if c.Postgres.DSN == "" {
			add("postgres.dsn is required unless use_memory (POSTGRES_DSN)")
		}
	}

	if c.Discovery.Limit <= 0 || c.Discovery.Limit > 1000 {
		add("discovery.limit must be in 1..1000, got %d", c.Discovery.Limit)
	}
	if o := c.Discovery.Offsets; o != nil {
		if err := o.validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for name, d := range map[string]time.Duration{
		"discovery.interval":         c.Discovery.Interval,
		"discovery.error_backoff":    c.Discovery.ErrorBackoff,
		"trigger.interval":           c.Trigger.Interval,
		"trigger.empty_interval":     c.Trigger.EmptyInterval,
		"trigger.error_backoff":      c.Trigger.ErrorBackoff,
		"position.interval":          c.Position.Interval,
		"position.error_backoff":     c.Position.ErrorBackoff,
		"general.heartbeat_interval": c.General.HeartbeatInterval,
	} {
		if d <= 0 {
			add("%s must be positive, got %s", name, d)
		}
	}
	if c.Gatekeeper.MinLiquidityUSD < 0 {
		add("gatekeeper.min_liquidity_usd must not be negative")
	}
	for name := range c.Gatekeeper.Rules {
		if !isPlaceholderRule(name) {
			add("gatekeeper.rules: unknown rule %q", name)
		}
	}

	s := c.Scoring
	if s.ConfidenceMin < 0 || s.ConfidenceMin >= s.HighConfidenceMin || s.HighConfidenceMin > 100 {
		add("scoring thresholds must satisfy 0 <= confidence_min < high_confidence_min <= 100, got %d/%d",
			s.ConfidenceMin, s.HighConfidenceMin)
	}
	if s.MaxTop10Share <= 0 || s.MaxTop10Share > 100 {
		add("scoring.max_top10_share must be in (0,100], got %v", s.MaxTop10Share)
	}

	p := c.Position
	if p.TakeProfitPct <= 0 {
		add("position.take_profit_pct must be positive, got %v", p.TakeProfitPct)
	}
	if p.StopLossPct >= 0 || p.StopLossPct <= -100 {
		add("position.stop_loss_pct must be in (-100,0), got %v", p.StopLossPct)
	}
	if p.ConfidenceUSD <= 0 || p.HighConfidenceUSD <= 0 {
		add("position investment tiers must be positive")
	}

	return errors.Join(errs...)
}

func (o *OffsetsConfig) validate() error {
	idx := []int{o.LP, o.MintA, o.MintB, o.TokenAccountA, o.TokenAccountB}
	seen := make(map[int]bool, len(idx))
	for _, i := range idx {
		if i < 0 {
			return fmt.Errorf("discovery.offsets must not be negative")
		}
		if seen[i] {
			return fmt.Errorf("discovery.offsets must be distinct, %d repeats", i)
		}
		seen[i] = true
		if i >= o.MinKeys {
			return fmt.Errorf("discovery.offsets: index %d out of range for min_keys %d", i, o.MinKeys)
		}
	}
	return nil
}

func isPlaceholderRule(name string) bool {
	for _, r := range PlaceholderRules {
		if r == name {
			return true
		}
	}
	return false
}
