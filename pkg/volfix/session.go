package volfix

import "fmt"

// SessionEnumerator is an indexed snapshot of the audio sessions on one device
type SessionEnumerator interface {
	Count() (int, error)
	Session(i int) (SessionControl, error)

	Release()
}

// SessionControl represents a single application's audio session
type SessionControl interface {
	DisplayName() (OSString, error)
	ProcessID() (uint32, error)

	// SimpleVolume acquires the session's volume control capability
	SimpleVolume() (SimpleVolume, error)

	Release()
}

// SimpleVolume is the per-session master volume control
type SimpleVolume interface {
	GetMasterVolume() (float32, error)

	// SetMasterVolume sets the level using a null event context
	SetMasterVolume(v float32) error

	Release()
}

// OSString is text the audio subsystem allocated on the caller's behalf.
// The receiver owns it and must Free it exactly once
type OSString interface {
	String() string
	Free()
}

// SessionInfo describes one session for listing purposes
type SessionInfo struct {
	Index       int
	DisplayName string
	PID         uint32
	Volume      float32
}

// format this with the display name and whatever the current volume is
const sessionStringFormat = "<session: %s, pid: %d, vol: %.2f>"

func (si SessionInfo) String() string {
	return fmt.Sprintf(sessionStringFormat, si.DisplayName, si.PID, si.Volume)
}

// takeOSString decodes s and frees it before returning. The raw handle never
// outlives this call, whichever way the caller's scope exits afterwards
func takeOSString(s OSString) string {
	defer s.Free()

	return s.String()
}
