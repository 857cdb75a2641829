// Package volfix locates an audio rendering device by friendly name, finds an
// application's audio session on it and sets that session's volume.
package volfix

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// VolumeFix is the main entity tying the audio backend to the three lookup stages
type VolumeFix struct {
	logger   *zap.SugaredLogger
	backend  Backend
	notifier Notifier
	out      io.Writer

	initialized bool
}

// VolumeRequest describes one set-volume (or get-volume) invocation
type VolumeRequest struct {
	DevicePrefix string
	SessionName  string
	MatchMode    string
	Level        float32
}

// NewVolumeFix creates a VolumeFix instance. Stage diagnostics are written to out
func NewVolumeFix(logger *zap.SugaredLogger, backend Backend, notifier Notifier, out io.Writer) (*VolumeFix, error) {
	if backend == nil {
		return nil, errors.New("no audio backend")
	}

	if notifier == nil {
		notifier = NopNotifier()
	}

	v := &VolumeFix{
		logger:   logger,
		backend:  backend,
		notifier: notifier,
		out:      out,
	}

	logger.Debug("Created volfix instance")

	return v, nil
}

// Initialize performs the process-wide audio subsystem setup. It must run
// before any other call and be paired with Release
func (v *VolumeFix) Initialize() error {
	v.logger.Debug("Initializing audio backend")

	if err := v.backend.Initialize(); err != nil {
		v.logger.Errorw("Failed to initialize audio backend", "error", err)
		return newPlatformError("initialize audio subsystem", err)
	}

	v.initialized = true

	return nil
}

// Release tears down whatever Initialize set up
func (v *VolumeFix) Release() error {
	if !v.initialized {
		return nil
	}

	v.initialized = false

	if err := v.backend.Release(); err != nil {
		v.logger.Warnw("Failed to release audio backend", "error", err)
		return fmt.Errorf("release audio backend: %w", err)
	}

	v.logger.Debug("Released audio backend")

	return nil
}

// SetSessionVolume runs the device, session and volume stages in order,
// stopping at the first one that fails
func (v *VolumeFix) SetSessionVolume(req VolumeRequest) error {
	err := v.setSessionVolume(req)

	if err == nil {
		v.notifier.Notify("Volume set",
			fmt.Sprintf("%s on %s is now at %.0f%%", req.SessionName, req.DevicePrefix, req.Level*100))
	} else {
		v.notifier.Notify("Failed to set volume", err.Error())
	}

	return err
}

func (v *VolumeFix) setSessionVolume(req VolumeRequest) error {
	if err := ValidateVolume(req.Level); err != nil {
		return err
	}

	match, err := MatcherFor(req.MatchMode, req.SessionName)
	if err != nil {
		return err
	}

	return v.withSession(req.DevicePrefix, match, func(session SessionControl) error {
		fmt.Fprintln(v.out, "Setting volume")

		if err := SetVolume(session, req.Level); err != nil {
			v.logger.Warnw("Failed to set session volume", "error", err, "volume", req.Level)
			return err
		}

		v.logger.Debugw("Adjusted session volume",
			"session", describeMatch(req.MatchMode, req.SessionName),
			"to", fmt.Sprintf("%.2f", req.Level))

		return nil
	})
}

// GetSessionVolume runs the device and session stages and reads the session's level
func (v *VolumeFix) GetSessionVolume(req VolumeRequest) (float32, error) {
	match, err := MatcherFor(req.MatchMode, req.SessionName)
	if err != nil {
		return 0, err
	}

	var level float32

	err = v.withSession(req.DevicePrefix, match, func(session SessionControl) error {
		level, err = GetVolume(session)
		return err
	})

	return level, err
}

// Devices lists every active render device
func (v *VolumeFix) Devices() ([]DeviceInfo, error) {
	var devices []DeviceInfo

	err := v.withEnumerator(func(enum EndpointEnumerator) error {
		var err error
		devices, err = ListDevices(v.logger, enum)
		return err
	})

	return devices, err
}

// Sessions lists every session on the first device matching devicePrefix
func (v *VolumeFix) Sessions(devicePrefix string) ([]SessionInfo, error) {
	var sessions []SessionInfo

	err := v.withDevice(devicePrefix, func(device Endpoint) error {
		var err error
		sessions, err = DescribeSessions(v.logger, device)
		return err
	})

	return sessions, err
}

func (v *VolumeFix) withEnumerator(fn func(EndpointEnumerator) error) error {
	if !v.initialized {
		return errors.New("audio backend not initialized")
	}

	enum, err := v.backend.Enumerator()
	if err != nil {
		return newPlatformError("create device enumerator", err)
	}
	defer enum.Release()

	return fn(enum)
}

func (v *VolumeFix) withDevice(prefix string, fn func(Endpoint) error) error {
	return v.withEnumerator(func(enum EndpointEnumerator) error {
		device, err := FindDevice(v.logger, enum, prefix)
		if err != nil {
			return err
		}
		defer device.Release()

		fmt.Fprintln(v.out, "Found Device")

		return fn(device)
	})
}

func (v *VolumeFix) withSession(prefix string, match SessionMatcher, fn func(SessionControl) error) error {
	return v.withDevice(prefix, func(device Endpoint) error {
		session, err := FindSession(v.logger, device, match)
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				fmt.Fprintln(v.out, "Failed to find audio session")
			}
			return err
		}
		defer session.Release()

		return fn(session)
	})
}
