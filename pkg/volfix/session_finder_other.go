//go:build !windows && !linux

package volfix

import (
	"errors"

	"go.uber.org/zap"
)

// NewPlatformBackend reports that there is no audio backend for this OS
func NewPlatformBackend(logger *zap.SugaredLogger) (Backend, error) {
	logger.Warn("No audio backend for this platform")
	return nil, errors.New("audio sessions are only supported on Windows and Linux")
}
