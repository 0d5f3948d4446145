package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/vytor/neuroprofile/internal/analysis"
)

type Config struct {
	Addr                string `env:"ADDR" envDefault:":8080"`
	DBPath              string `env:"DB_PATH" envDefault:"file:neuroprofile.db"`
	LogLevel            string `env:"LOG_LEVEL" envDefault:"INFO"`
	AnalysisWorkerCount int    `env:"ANALYSIS_WORKER_COUNT" envDefault:"2"`
	AnalysisQueueSize   int    `env:"ANALYSIS_QUEUE_SIZE" envDefault:"64"`
	EpochWorkers        int    `env:"EPOCH_WORKERS" envDefault:"0"`
	MaxUploadMB         int    `env:"MAX_UPLOAD_MB" envDefault:"64"`

	SamplingRate            float64 `env:"SAMPLING_RATE" envDefault:"250"`
	WindowSeconds           float64 `env:"WINDOW_SECONDS" envDefault:"30"`
	ChannelNoiseFraction    float64 `env:"CHANNEL_NOISE_FRACTION" envDefault:"0.3"`
	PeakToPeakMaxUV         float64 `env:"PTP_MAX_UV" envDefault:"300"`
	StdDevMinUV             float64 `env:"STD_MIN_UV" envDefault:"0.1"`
	StdDevMaxUV             float64 `env:"STD_MAX_UV" envDefault:"100"`
	ClassificationThreshold float64 `env:"CLASSIFICATION_THRESHOLD" envDefault:"1.15"`
	ArtifactPowerCeiling    float64 `env:"ARTIFACT_POWER_CEILING" envDefault:"1e-9"`
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing.
func Load() (Config, error) {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = strings.ToUpper(cfg.LogLevel)
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if c.AnalysisWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("ANALYSIS_WORKER_COUNT must be at least 1 (got %d)", c.AnalysisWorkerCount))
	}
	if c.AnalysisQueueSize < 1 {
		errs = append(errs, fmt.Errorf("ANALYSIS_QUEUE_SIZE must be at least 1 (got %d)", c.AnalysisQueueSize))
	}
	if c.EpochWorkers < 0 {
		errs = append(errs, fmt.Errorf("EPOCH_WORKERS cannot be negative (got %d)", c.EpochWorkers))
	}
	if c.MaxUploadMB < 1 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_MB must be at least 1 (got %d)", c.MaxUploadMB))
	}
	if c.SamplingRate <= 0 {
		errs = append(errs, fmt.Errorf("SAMPLING_RATE must be positive (got %v)", c.SamplingRate))
	}
	if c.WindowSeconds <= 0 {
		errs = append(errs, fmt.Errorf("WINDOW_SECONDS must be positive (got %v)", c.WindowSeconds))
	}
	if c.ChannelNoiseFraction < 0 || c.ChannelNoiseFraction > 1 {
		errs = append(errs, fmt.Errorf("CHANNEL_NOISE_FRACTION must be within [0, 1] (got %v)", c.ChannelNoiseFraction))
	}
	if c.PeakToPeakMaxUV <= 0 {
		errs = append(errs, fmt.Errorf("PTP_MAX_UV must be positive (got %v)", c.PeakToPeakMaxUV))
	}
	if c.StdDevMinUV < 0 || c.StdDevMinUV >= c.StdDevMaxUV {
		errs = append(errs, fmt.Errorf("STD_MIN_UV must be non-negative and below STD_MAX_UV (got %v, %v)", c.StdDevMinUV, c.StdDevMaxUV))
	}
	if c.ClassificationThreshold <= 0 {
		errs = append(errs, fmt.Errorf("CLASSIFICATION_THRESHOLD must be positive (got %v)", c.ClassificationThreshold))
	}
	if c.ArtifactPowerCeiling <= 0 {
		errs = append(errs, fmt.Errorf("ARTIFACT_POWER_CEILING must be positive (got %v)", c.ArtifactPowerCeiling))
	}
	return errors.Join(errs...)
}

// Pipeline converts the analysis settings into a pipeline configuration.
// Amplitude limits are configured in microvolts and stored in volts.
func (c Config) Pipeline() analysis.PipelineConfig {
	p := analysis.DefaultPipelineConfig()
	p.SamplingRate = c.SamplingRate
	p.WindowSeconds = c.WindowSeconds
	p.Quality = analysis.QualityThresholds{
		MaxPeakToPeak:   c.PeakToPeakMaxUV * 1e-6,
		MinStdDev:       c.StdDevMinUV * 1e-6,
		MaxStdDev:       c.StdDevMaxUV * 1e-6,
		ChannelFraction: c.ChannelNoiseFraction,
	}
	p.Threshold = c.ClassificationThreshold
	p.PowerCeiling = c.ArtifactPowerCeiling
	p.Workers = c.EpochWorkers
	return p
}
