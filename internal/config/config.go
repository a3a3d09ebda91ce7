package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	Environment string
	BunDebug    bool

	// Input data
	BuildingsFile    string // building footprints with nested address records
	StreetsFile      string // street geometries used for service-line routing
	LoadProfilesFile string
	NetworkJSONFile  string
	ScenariosFile    string

	// Outputs
	OutputDir  string
	ResultDirs []string

	// External simulation collaborator
	CollaboratorCmd     string
	CollaboratorScript  string
	CollaboratorTimeout time.Duration

	// Artifact storage
	StorageType string // local or s3
	S3Bucket    string
	S3Region    string
	S3Prefix    string
	S3AccessKey string
	S3SecretKey string

	// JWT / keys
	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	TokenTTL          time.Duration
	RequireAuth       bool

	AllowedOrigins []string

	// AllowPositionalKeys enables the last-resort index fallback when merging
	// collaborator metrics onto buildings.
	AllowPositionalKeys bool
}

// Load loads environment variables and returns a Config struct
func Load() *Config {
	_ = godotenv.Load()

	tokenTTLHours, _ := strconv.Atoi(getEnv("TOKEN_TTL_HOURS", "24"))

	return &Config{
		Port:                getEnv("APP_PORT", "8780"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		Environment:         getEnv("ENVIRONMENT", "development"),
		BunDebug:            getEnvAsBool("BUNDEBUG", false),
		BuildingsFile:       getEnv("BUILDINGS_FILE", "data/geojson/hausumringe_mit_adressenV3.geojson"),
		StreetsFile:         getEnv("STREETS_FILE", "data/geojson/strassen_mit_adressenV3.geojson"),
		LoadProfilesFile:    getEnv("LOAD_PROFILES_FILE", "../thesis-data-2/power-sim/gebaeude_lastphasenV2.json"),
		NetworkJSONFile:     getEnv("NETWORK_JSON_FILE", "../thesis-data-2/power-sim/branitzer_siedlung_ns_v3_ohne_UW.json"),
		ScenariosFile:       getEnv("SCENARIOS_FILE", "scenarios.yaml"),
		OutputDir:           getEnv("OUTPUT_DIR", "results_test"),
		ResultDirs:          splitList(getEnv("RESULT_DIRS", "results_test,results,simulation_outputs")),
		CollaboratorCmd:     getEnv("COLLABORATOR_CMD", "python3"),
		CollaboratorScript:  getEnv("COLLABORATOR_SCRIPT", "street_final_copy_3/bridge.py"),
		CollaboratorTimeout: getEnvAsDuration("COLLABORATOR_TIMEOUT", 10*time.Minute),
		StorageType:         getEnv("STORAGE_TYPE", "local"),
		S3Bucket:            getEnv("AWS_S3_BUCKET", ""),
		S3Region:            getEnv("AWS_REGION", "eu-central-1"),
		S3Prefix:            getEnv("AWS_S3_PREFIX", "energy-tools"),
		S3AccessKey:         getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:         getEnv("AWS_SECRET_ACCESS_KEY", ""),
		JWTPrivateKeyPath:   getEnv("JWT_PRIVATE_KEY_PATH", "keys/jwt_private.pem"),
		JWTPublicKeyPath:    getEnv("JWT_PUBLIC_KEY_PATH", "keys/jwt_public.pem"),
		TokenTTL:            time.Duration(tokenTTLHours) * time.Hour, // default 24h
		RequireAuth:         getEnvAsBool("REQUIRE_AUTH", false),
		AllowedOrigins:      splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		AllowPositionalKeys: getEnvAsBool("ALLOW_POSITIONAL_KEYS", false),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return fallback
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("invalid bool for %s, defaulting to %v\n", key, fallback)
		return fallback
	}
	return val
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		return fallback
	}
	val, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("invalid duration for %s, defaulting to %v\n", key, fallback)
		return fallback
	}
	return val
}

// splitList parses a comma-separated env value, dropping empty entries.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
