// Package config provides configuration management for the backtest engine.
package config

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Inputs      InputsConfig      `mapstructure:"inputs"`
	Backtest    BacktestConfig    `mapstructure:"backtest" validate:"required"`
	Betting     BettingConfig     `mapstructure:"betting" validate:"required"`
	Calibration CalibrationConfig `mapstructure:"calibration" validate:"required"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// InputsConfig represents input file locations
type InputsConfig struct {
	PredictionsPath string `mapstructure:"predictions_path"`
	ActualsPath     string `mapstructure:"actuals_path"`
}

// BacktestConfig represents backtest replay configuration
type BacktestConfig struct {
	InitialBankroll float64 `mapstructure:"initial_bankroll" validate:"required,gt=0"`
	OutputDir       string  `mapstructure:"output_dir" validate:"required"`
}

// BettingConfig represents bet selection and staking configuration
type BettingConfig struct {
	MinConfidence      float64 `mapstructure:"min_confidence" validate:"gte=0,lte=1"`
	DefaultDecimalOdds float64 `mapstructure:"default_decimal_odds" validate:"required,gt=1"`
	MaxFractionPerBet  float64 `mapstructure:"max_fraction_per_bet" validate:"required,gt=0,lte=1"`
}

// CalibrationConfig represents probability recalibration configuration
type CalibrationConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	Method        string  `mapstructure:"method" validate:"required,calibrationmethod"`
	Split         string  `mapstructure:"split" validate:"required,oneof=train all"`
	KFoldFolds    int     `mapstructure:"kfold_folds" validate:"required,gte=2"`
	TrainFraction float64 `mapstructure:"train_fraction" validate:"required,gt=0,lt=1"`
}

// MetricsConfig represents Prometheus instrumentation configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
