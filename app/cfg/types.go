package cfg

const (
	CommandRun   = "run"
	CommandServe = "serve"
)

type Cfg struct {
	Command string

	// Source and state
	SourceConfig string
	StateBackend string
	StatePath    string
	RedisAddr    string
	RedisKey     string

	// Delivery
	WebhookURL string
	DryRun     bool

	// HTTP client
	UserAgent string
	Timeout   int

	// Server
	Port         string
	BaseUrl      string
	APIAccessKey string

	Debug   bool
	Version string
}
