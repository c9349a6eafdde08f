package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	RosterSourceEnv      = "env"
	RosterSourcePostgres = "postgres"
	RosterSourceRedis    = "redis"
)

var defaultParticipants = []string{
	"kar10arora",
	"rrrautela",
	"harshbisht",
	"kashishkhatter",
	"gaurav_yadav_12",
}

type Config struct {
	APIPort   string
	BoardPort string
	APIURL    string

	ProviderBaseURL    string
	ProfileURLTemplate string
	FetchConcurrency   int           // <= 0 leaves the fan-out unbounded
	FetchTimeout       time.Duration // 0 keeps the transport default

	RosterSource string
	Participants []string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisRosterKey string

	// Display denominators. They drift from the real catalog size and are not fetched.
	TotalEasyProblems   int
	TotalMediumProblems int
	TotalHardProblems   int
	TotalUsers          int
}

var AppConfig *Config

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:   getEnv("API_PORT", "8080"),
		BoardPort: getEnv("BOARD_PORT", "3000"),
		APIURL:    strings.TrimRight(getEnv("API_URL", "http://localhost:8080"), "/"),

		ProviderBaseURL:    strings.TrimRight(getEnv("PROVIDER_BASE_URL", "https://leetcode-stats-api.herokuapp.com"), "/"),
		ProfileURLTemplate: getEnv("PROFILE_URL_TEMPLATE", "https://leetcode.com/u/{username}/"),
		FetchConcurrency:   getEnvAsInt("FETCH_CONCURRENCY", 8),
		FetchTimeout:       time.Duration(getEnvAsInt("FETCH_TIMEOUT_SECONDS", 0)) * time.Second,

		RosterSource: strings.ToLower(getEnv("ROSTER_SOURCE", RosterSourceEnv)),
		Participants: getEnvAsList("PARTICIPANT_USERNAMES", defaultParticipants),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "leetboard"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		RedisRosterKey: getEnv("REDIS_ROSTER_KEY", "leetboard:participants"),

		TotalEasyProblems:   getEnvAsInt("TOTAL_EASY_PROBLEMS", 900),
		TotalMediumProblems: getEnvAsInt("TOTAL_MEDIUM_PROBLEMS", 1800),
		TotalHardProblems:   getEnvAsInt("TOTAL_HARD_PROBLEMS", 700),
		TotalUsers:          getEnvAsInt("TOTAL_USERS", 20000000),
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode

	return AppConfig
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

// getEnvAsList splits a comma-separated value. Blank entries are skipped
// and duplicates keep their first position.
func getEnvAsList(key string, fallback []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return append([]string(nil), fallback...)
	}
	return SplitList(valueStr)
}

func SplitList(s string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}
