package config

import "os"

type Config struct {
	Port                    string
	Env                     string
	MongoURI                string
	MongoDB                 string
	PostgresConnStr         string
	JWTSecret               string
	ClientURL               string
	FirebaseCredentialsPath string
}

func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		MongoURI:                getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:                 getEnv("MONGO_DB", "minimal-blog"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		ClientURL:               getEnv("CLIENT_URL", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
	}
}

// IsDevelopment reports whether the server runs in development mode.
// Development mode exposes internal error detail to callers.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// AllowedOrigins lists the origins the CORS policy accepts: the local
// dev frontend plus the deployed client when configured.
func (c *Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:3000"}
	if c.ClientURL != "" {
		origins = append(origins, c.ClientURL)
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
