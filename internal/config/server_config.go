package config

import (
	"time"

	"github.com/attestra/go-anoncred-infra/internal/util"
)

// EchoServer holds the HTTP listener settings.
type EchoServer struct {
	ListenAddress string
}

// Database holds the optional PostgreSQL connection settings.
type Database struct {
	ConnectionString string
}

// Auth holds the JWT settings for admin/issuer identities on mutating
// routes.
type Auth struct {
	JWTSecret     string
	JWTIssuer     string
	TokenDuration time.Duration
}

// Engine holds the credential engine settings.
type Engine struct {
	// StateBackend selects the state store: "memory", "redis" or
	// "postgres".
	StateBackend  string
	RedisEndpoint string
	// ChallengeTTL bounds how long a minted proof challenge stays
	// redeemable.
	ChallengeTTL time.Duration
}

// Server is the full service configuration.
type Server struct {
	Echo     EchoServer
	Database Database
	Auth     Auth
	Engine   Engine
}

// DefaultServiceConfigFromEnv returns the configuration populated from the
// environment with development defaults.
func DefaultServiceConfigFromEnv() Server {
	return Server{
		Echo: EchoServer{
			ListenAddress: util.GetEnv("SERVER_ECHO_LISTEN_ADDRESS", ":8080"),
		},
		Database: Database{
			ConnectionString: util.GetEnv("SERVER_DATABASE_CONNECTION_STRING", ""),
		},
		Auth: Auth{
			JWTSecret:     util.GetEnv("SERVER_AUTH_JWT_SECRET", "dev-secret-do-not-use"),
			JWTIssuer:     util.GetEnv("SERVER_AUTH_JWT_ISSUER", "anoncred"),
			TokenDuration: time.Duration(util.GetEnvAsInt("SERVER_AUTH_TOKEN_DURATION_MINUTES", 60)) * time.Minute,
		},
		Engine: Engine{
			StateBackend:  util.GetEnv("SERVER_ENGINE_STATE_BACKEND", "memory"),
			RedisEndpoint: util.GetEnv("SERVER_ENGINE_REDIS_ENDPOINT", ""),
			ChallengeTTL:  time.Duration(util.GetEnvAsInt("SERVER_ENGINE_CHALLENGE_TTL_SECONDS", 120)) * time.Second,
		},
	}
}
