package volfix

import (
	"math"
	"strconv"
	"strings"
)

const (
	minVolume = 0.0
	maxVolume = 1.0
)

// SetVolume sets the session's master volume to level. level must already
// have passed ValidateVolume
func SetVolume(session SessionControl, level float32) error {
	volume, err := session.SimpleVolume()
	if err != nil {
		return newPlatformError("query session volume control", err)
	}
	defer volume.Release()

	if err := volume.SetMasterVolume(level); err != nil {
		return newPlatformError("set session volume", err)
	}

	return nil
}

// GetVolume reads the session's current master volume
func GetVolume(session SessionControl) (float32, error) {
	volume, err := session.SimpleVolume()
	if err != nil {
		return 0, newPlatformError("query session volume control", err)
	}
	defer volume.Release()

	level, err := volume.GetMasterVolume()
	if err != nil {
		return 0, newPlatformError("get session volume", err)
	}

	return level, nil
}

// ParseVolume turns command line text into a validated volume level
func ParseVolume(text string) (float32, error) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
	if err != nil || math.IsNaN(parsed) {
		return 0, NewInputError("invalid number for volume")
	}

	level := float32(parsed)
	if err := ValidateVolume(level); err != nil {
		return 0, err
	}

	return level, nil
}

// ValidateVolume rejects anything outside [0, 1]
func ValidateVolume(level float32) error {
	if math.IsNaN(float64(level)) || level < minVolume || level > maxVolume {
		return NewInputError("volume must be between 0 and 1")
	}

	return nil
}
