package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP           string // Host IP for the server
	RESTPort         int    // Port for the REST API
	DBHost           string // Hostname or IP address for the database
	DBPort           int    // Port number for the database
	DBUser           string // Username for the database
	DBPassword       string // Password for the database
	DBName           string // Name of the database
	RedisHost        string // Hostname or IP address for redis
	RedisPort        int    // Port number for redis
	GinMode          string // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret        string // Secret key for JWT signing
	JWTIssuer        string // Issuer claim for JWTs
	OperatorName     string // Name the operator signs in with
	OperatorKeyHash  string // Bcrypt hash of the operator key
	MazeDefaultSize  int    // Size used when a request names none
	MazeMinSize      int    // Smallest accepted maze size
	MazeMaxSize      int    // Exclusive upper bound of the maze size
	MazeDelayEnabled bool   // Animate algorithms one step per MazeStepDelayMS
	MazeStepDelayMS  int    // Pause between two algorithm steps in milliseconds
	EventTTLSeconds  int    // Lifetime of recorded run events in redis
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

	return Config{
		DBHost:           mustGetEnv("DB_HOST"),
		DBPort:           mustGetEnvAsInt("DB_PORT"),
		DBUser:           mustGetEnv("DB_USER"),
		DBPassword:       mustGetEnv("DB_PASS"),
		DBName:           mustGetEnv("DB_NAME"),
		RedisHost:        mustGetEnv("REDIS_HOST"),
		RedisPort:        mustGetEnvAsInt("REDIS_PORT"),
		GinMode:          getEnvWithDefault("GIN_MODE", "release"),
		JWTSecret:        mustGetEnv("JWT_SECRET"),
		JWTIssuer:        mustGetEnv("JWT_ISSUER"),
		OperatorName:     mustGetEnv("OPERATOR_NAME"),
		OperatorKeyHash:  mustGetEnv("OPERATOR_KEY_HASH"),
		HostIP:           mustGetEnv("HOST_IP"),
		RESTPort:         mustGetEnvAsInt("REST_PORT"),
		MazeDefaultSize:  getEnvAsIntWithDefault("MAZE_DEFAULT_SIZE", 10),
		MazeMinSize:      getEnvAsIntWithDefault("MAZE_MIN_SIZE", 4),
		MazeMaxSize:      getEnvAsIntWithDefault("MAZE_MAX_SIZE", 100),
		MazeDelayEnabled: getEnvAsBoolWithDefault("MAZE_DELAY_ENABLED", true),
		MazeStepDelayMS:  getEnvAsIntWithDefault("MAZE_STEP_DELAY_MS", 20),
		EventTTLSeconds:  getEnvAsIntWithDefault("EVENT_TTL_SECONDS", 600),
	}
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

func getEnvAsBoolWithDefault(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be a boolean: %v", key, err)
	}
	return value
}
