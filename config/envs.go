package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorageMongo  = "mongo"  // MongoDB for mazes and editors, Redis for the solution cache and locks
	StorageMemory = "memory" // everything in process, for single-node development
)

// Config holds the application's configuration values.
type Config struct {
	Storage            string // StorageMongo or StorageMemory
	HostIP             string // Host IP for the server
	RESTPort           int    // Port for the REST API
	DBHost             string // Hostname or IP address for the database
	DBPort             int    // Port number for the database
	DBUser             string // Username for the database
	DBPassword         string // Password for the database
	DBName             string // Name of the database
	RedisAddr          string // host:port of the Redis server backing the solution cache and maze locks
	RedisPassword      string // Password for Redis, empty for none
	RedisDB            int    // Redis logical database
	SolutionTTLSeconds int    // How long a cached solution lives
	LockExpirySeconds  int    // Expiry of a per-maze edit lock
	GinMode            string // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret          string // Secret key for JWT signing
	JWTIssuer          string // Issuer claim for JWTs
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	c := Config{
		Storage:            getEnvWithDefault("STORAGE_BACKEND", StorageMongo),
		SolutionTTLSeconds: getEnvAsIntWithDefault("SOLUTION_TTL_SECONDS", 600),
		LockExpirySeconds:  getEnvAsIntWithDefault("LOCK_EXPIRY_SECONDS", 8),
		GinMode:            getEnvWithDefault("GIN_MODE", "release"),
		JWTSecret:          mustGetEnv("JWT_SECRET"),
		JWTIssuer:          mustGetEnv("JWT_ISSUER"),
		HostIP:             mustGetEnv("HOST_IP"),
		RESTPort:           mustGetEnvAsInt("REST_PORT"),
	}

	switch c.Storage {
	case StorageMemory:
	case StorageMongo:
		c.DBHost = mustGetEnv("DB_HOST")
		c.DBPort = mustGetEnvAsInt("DB_PORT")
		c.DBUser = mustGetEnv("DB_USER")
		c.DBPassword = mustGetEnv("DB_PASS")
		c.DBName = mustGetEnv("DB_NAME")
		c.RedisAddr = mustGetEnv("REDIS_ADDR")
		c.RedisPassword = getEnvWithDefault("REDIS_PASSWORD", "")
		c.RedisDB = getEnvAsIntWithDefault("REDIS_DB", 0)
	default:
		log.Fatalf("[APP] [FATAL] STORAGE_BACKEND must be %q or %q, got %q", StorageMongo, StorageMemory, c.Storage)
	}
	return c
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("[APP] [FATAL] Environment variable %s is not set", key)
	}
	return value
}

// mustGetEnvAsInt retrieves the value of an environment variable as an integer or logs a fatal error if not set or cannot be parsed.
func mustGetEnvAsInt(key string) int {
	valueStr := mustGetEnv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault is getEnvWithDefault for integers. A value that does not parse is fatal.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}
