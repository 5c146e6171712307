package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type runCmd struct {
	DryRun bool `long:"dry-run" description:"Print the notification instead of sending it and leave state untouched"`
}

type serveCmd struct {
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl      string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://comb.example.com)"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
}

type rawCfg struct {
	// Source and state
	SourceConfig string `long:"source-config" env:"SOURCE_CONFIG" description:"YAML file describing the watched catalog (built-in Binance futures source when empty)"`
	StateBackend string `long:"state-backend" env:"STATE_BACKEND" default:"file" choice:"file" choice:"sqlite" choice:"redis" description:"Where seen facts are stored"`
	StatePath    string `long:"state-path" env:"STATE_PATH" default:"state.json" description:"State file (file backend) or database path (sqlite backend)"`
	RedisAddr    string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address (redis backend)"`
	RedisKey     string `long:"redis-key" env:"REDIS_KEY" default:"launch-comb:seen" description:"Redis set holding seen facts (redis backend)"`

	// Delivery
	WebhookURL string `long:"webhook-url" env:"DISCORD_WEBHOOK_URL" description:"Discord webhook receiving notifications"`

	// HTTP client
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36" description:"User agent string for HTTP requests"`
	Timeout   int    `long:"timeout" env:"HTTP_TIMEOUT" default:"15" description:"HTTP timeout in seconds"`

	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Run   runCmd   `command:"run" description:"Poll the catalog once and notify new launch times"`
	Serve serveCmd `command:"serve" description:"Serve notified launch times over HTTP"`
}

// Load parses args and the environment. It returns nil, nil when help was
// requested. Without a command, run is assumed.
func Load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)
	parser.SubcommandsOptional = true

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %d", raw.Timeout)
	}

	command := CommandRun
	if parser.Active != nil {
		command = parser.Active.Name
	}

	cfg := &Cfg{
		Command:      command,
		SourceConfig: raw.SourceConfig,
		StateBackend: raw.StateBackend,
		StatePath:    raw.StatePath,
		RedisAddr:    raw.RedisAddr,
		RedisKey:     raw.RedisKey,
		WebhookURL:   raw.WebhookURL,
		DryRun:       raw.Run.DryRun,
		UserAgent:    raw.UserAgent,
		Timeout:      raw.Timeout,
		Port:         raw.Serve.Port,
		BaseUrl:      raw.Serve.BaseUrl,
		APIAccessKey: raw.Serve.APIAccessKey,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	return cfg, nil
}
