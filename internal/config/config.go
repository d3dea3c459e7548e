package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
)

// Config holds process-wide settings for the CLI and services.
type Config struct {
	DBPath           string
	LogMode          string
	StudentLevel     domain.StudentLevel
	StudyDays        int
	ReviewDays       int
	ShortfallPolicy  domain.ShortfallPolicy
	BatchConcurrency int
	Factors          contract.FactorOverrides
}

// DefaultConfig returns the built-in settings. The database lives under
// ~/.studyplan unless overridden.
func DefaultConfig() Config {
	dbPath := "studyplan.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".studyplan", "studyplan.db")
	}
	return Config{
		DBPath:           dbPath,
		LogMode:          "off",
		StudentLevel:     domain.LevelMedium,
		StudyDays:        6,
		ReviewDays:       1,
		ShortfallPolicy:  domain.ShortfallReport,
		BatchConcurrency: 4,
	}
}

// LoadEnvFile loads a dotenv file into the process environment. Variables
// already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// LoadConfig reads configuration from the environment, after loading the
// file named by STUDYPLAN_ENV_FILE (default ./.env). Unset or invalid values
// keep their defaults.
func LoadConfig() (Config, error) {
	envFile := os.Getenv("STUDYPLAN_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := LoadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	if v := os.Getenv("STUDYPLAN_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("STUDYPLAN_LOG_MODE"); v != "" {
		cfg.LogMode = strings.ToLower(v)
	}
	if v := domain.StudentLevel(strings.ToLower(os.Getenv("STUDYPLAN_STUDENT_LEVEL"))); v.Valid() {
		cfg.StudentLevel = v
	}
	if v := domain.ShortfallPolicy(strings.ToLower(os.Getenv("STUDYPLAN_SHORTFALL_POLICY"))); v.Valid() {
		cfg.ShortfallPolicy = v
	}

	study, review := cfg.StudyDays, cfg.ReviewDays
	if n, ok := intEnv("STUDYPLAN_STUDY_DAYS"); ok && n >= 1 && n <= 7 {
		study = n
	}
	if n, ok := intEnv("STUDYPLAN_REVIEW_DAYS"); ok && n >= 0 && n <= 6 {
		review = n
	}
	if study+review <= 7 {
		cfg.StudyDays, cfg.ReviewDays = study, review
	}
	if n, ok := intEnv("STUDYPLAN_BATCH_CONCURRENCY"); ok && n > 0 {
		cfg.BatchConcurrency = n
	}

	cfg.Factors = contract.FactorOverrides{
		LevelHigh:      factorEnv("STUDYPLAN_LEVEL_FACTOR_HIGH"),
		LevelMedium:    factorEnv("STUDYPLAN_LEVEL_FACTOR_MEDIUM"),
		LevelLow:       factorEnv("STUDYPLAN_LEVEL_FACTOR_LOW"),
		Weakness:       factorEnv("STUDYPLAN_WEAKNESS_FACTOR"),
		Strategy:       factorEnv("STUDYPLAN_STRATEGY_FACTOR"),
		Review:         factorEnv("STUDYPLAN_REVIEW_FACTOR"),
		ReviewOfReview: factorEnv("STUDYPLAN_REVIEW_OF_REVIEW_FACTOR"),
	}
	return cfg, nil
}

func intEnv(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

// factorEnv returns nil unless name holds a positive number.
func factorEnv(name string) *float64 {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f <= 0 {
		return nil
	}
	return &f
}
