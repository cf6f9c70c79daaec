package subscriber

// Config describes where subscriber records live and how writes behave.
// The table and column names are configurable so the service can point at
// an existing application schema instead of its own.
type Config struct {
	Table           string `env:"SUBSCRIBERS_TABLE" envDefault:"subscribers"`
	EmailColumn     string `env:"SUBSCRIBERS_EMAIL_COLUMN" envDefault:"email"`
	PlanColumn      string `env:"SUBSCRIBERS_PLAN_COLUMN" envDefault:"plan"`
	LimitColumn     string `env:"SUBSCRIBERS_LIMIT_COLUMN" envDefault:"usage_limit"`
	CreateIfMissing bool   `env:"SUBSCRIBERS_CREATE_IF_MISSING" envDefault:"true"`
}
