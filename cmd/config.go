package cmd

// Config carries the runtime settings read from the environment. RedisAddr
// is optional: when empty, the live location cache runs in process memory
// and a background sweep job handles expiry.
type Config struct {
	HTTPPort      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSslMode     string
	RedisAddr     string
	RedisPassword string
	NotifyBaseURL string
	NotifyAPIKey  string
}
