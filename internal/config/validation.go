// Package config provides configuration management for the backtest engine.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)
	v.RegisterValidation("calibrationmethod", validateCalibrationMethod)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateCalibrationMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "identity", "platt", "isotonic", "isotonic_kfold":
		return true
	default:
		return false
	}
}

func validateCrossField(cfg *Config) error {
	if cfg.Calibration.Method == "isotonic_kfold" && cfg.Calibration.KFoldFolds < 2 {
		return fmt.Errorf("calibration kfold_folds must be at least 2, got %d", cfg.Calibration.KFoldFolds)
	}
	if cfg.Betting.MaxFractionPerBet > 0.5 {
		return fmt.Errorf("betting max_fraction_per_bet above 0.5 risks ruin, got %.2f", cfg.Betting.MaxFractionPerBet)
	}
	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, fmt.Sprintf("field '%s' failed validation '%s'", err.Namespace(), err.Tag()))
	}
	return fmt.Errorf("configuration validation failed: %s", strings.Join(messages, "; "))
}
