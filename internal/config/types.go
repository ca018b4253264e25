package config

// Config holds all configuration for the application.
type Config struct {
	DBName    string
	Port      string
	Supabase  SupabaseConfig
	Slack     SlackConfig
	Turso     TursoConfig
	ProjectID string
}

// SupabaseConfig holds the connection details for the PlayPal record store.
type SupabaseConfig struct {
	URL     string
	AnonKey string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
