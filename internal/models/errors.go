package models

import "errors"

// Custom errors
var (
	// ErrCalibrationFit indicates training data cannot support a calibration fit
	ErrCalibrationFit = errors.New("calibration fit failed")

	// ErrInvalidOdds indicates decimal odds at or below 1.0
	ErrInvalidOdds = errors.New("invalid decimal odds")

	// ErrMissingColumn indicates a required input column is absent
	ErrMissingColumn = errors.New("required column missing")

	// ErrEngineDone indicates a completed engine was asked to run again
	ErrEngineDone = errors.New("engine already completed a run")
)
