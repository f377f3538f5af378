package contract

import (
	"errors"
	"fmt"

	"github.com/huangsam/fdr/schema"
)

// Sentinel errors for caller-side window validation.
var (
	ErrInvalidHorizon  = errors.New("invalid horizon")
	ErrInvalidGameweek = errors.New("invalid gameweek")
	ErrDatasetMissing  = errors.New("dataset not found")
)

// ValidateGameweek checks that a gameweek lies within the season.
func ValidateGameweek(gameweek, seasonGameweeks int) error {
	if gameweek < 1 || gameweek > seasonGameweeks {
		return fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidGameweek, gameweek, seasonGameweeks)
	}
	return nil
}

// ValidateWindow checks a start gameweek and horizon against the season length.
// The window must not run past the final gameweek.
func ValidateWindow(start, horizon, seasonGameweeks int) error {
	if err := ValidateGameweek(start, seasonGameweeks); err != nil {
		return err
	}
	if !schema.IsValidHorizon(horizon) {
		return fmt.Errorf("%w: %d (must be one of %v)", ErrInvalidHorizon, horizon, schema.ValidHorizons)
	}
	if last := start + horizon - 1; last > seasonGameweeks {
		return fmt.Errorf("%w: gameweeks %d-%d run past the season's final gameweek %d",
			ErrInvalidHorizon, start, last, seasonGameweeks)
	}
	return nil
}
