package config

// Config holds the application configuration.
type Config struct {
	Server   Server   `yaml:"server"`
	Logger   Logger   `yaml:"logger"`
	Records  Records  `yaml:"records"`
	Archive  Archive  `yaml:"archive"`
	Telegram Telegram `yaml:"telegram"`
	Watches  []Watch  `yaml:"watches" validate:"dive"`
}

// Server holds the configuration for the Fiber server.
type Server struct {
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port"`
}

// Logger holds the configuration for the app logging.
type Logger struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
}

// Records holds the retention configuration for the in-process record
// registry. Limit 0 keeps every record for the life of the process.
type Records struct {
	Limit int `yaml:"limit" validate:"gte=0"`
}

// Archive holds the configuration for the durable record archive.
type Archive struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"required_if=Enabled true"`
}

// Telegram holds the configuration for the telegram notifier.
type Telegram struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	ChatID  int64  `yaml:"chat_id"`
}

// Watch declares a watch to arm at startup. The same shape is accepted on
// the registration endpoint; exactly one of regex or glob must be set.
type Watch struct {
	Path      string `yaml:"path" validate:"required"`
	Regex     string `yaml:"regex,omitempty"`
	Glob      string `yaml:"glob,omitempty"`
	Recursive bool   `yaml:"recursive"`
	Trigger   string `yaml:"trigger" validate:"required"`
	Action    Action `yaml:"action"`
}

// Action declares the reaction of a startup watch: a shell command or a
// telegram message template.
type Action struct {
	Kind    string `yaml:"kind" validate:"required,oneof=command telegram"`
	Command string `yaml:"command,omitempty"`
	Message string `yaml:"message,omitempty"`
}
