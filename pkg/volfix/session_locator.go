package volfix

import (
	"go.uber.org/zap"
)

// FindSession returns the first session on device, in index order, whose
// display name satisfies match. match runs exactly once per session. The
// caller owns the returned session and must Release it
func FindSession(logger *zap.SugaredLogger, device Endpoint, match SessionMatcher) (SessionControl, error) {
	logger = logger.Named("session_locator")

	var found SessionControl

	err := forEachSession(device, func(i int, session SessionControl, name string) (bool, error) {
		if !match(name) {
			return false, nil
		}

		logger.Debugw("Found matching session", "index", i, "name", name)
		found = session

		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if found == nil {
		return nil, ErrSessionNotFound
	}

	return found, nil
}

// ListSessions returns the display name of every session on device
func ListSessions(logger *zap.SugaredLogger, device Endpoint) ([]string, error) {
	names := []string{}

	err := forEachSession(device, func(_ int, _ SessionControl, name string) (bool, error) {
		names = append(names, name)
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Named("session_locator").Debugw("Listed sessions", "count", len(names))

	return names, nil
}

// DescribeSessions is like ListSessions but also reports each session's owning
// process and current master volume
func DescribeSessions(logger *zap.SugaredLogger, device Endpoint) ([]SessionInfo, error) {
	sessions := []SessionInfo{}

	err := forEachSession(device, func(i int, session SessionControl, name string) (bool, error) {
		pid, err := session.ProcessID()
		if err != nil {
			return false, newPlatformError("get session process id", err)
		}

		level, err := GetVolume(session)
		if err != nil {
			return false, err
		}

		sessions = append(sessions, SessionInfo{
			Index:       i,
			DisplayName: name,
			PID:         pid,
			Volume:      level,
		})

		return false, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Named("session_locator").Debugw("Described sessions", "count", len(sessions))

	return sessions, nil
}

// forEachSession activates device's session enumerator, queries the count
// once and visits sessions 0..count in order along with their display names.
// Sessions visit does not keep are released before moving on
func forEachSession(device Endpoint, visit func(i int, session SessionControl, name string) (bool, error)) error {
	enum, err := device.OpenSessionEnumerator()
	if err != nil {
		return newPlatformError("open session enumerator", err)
	}
	defer enum.Release()

	count, err := enum.Count()
	if err != nil {
		return newPlatformError("get session count", err)
	}

	for i := 0; i < count; i++ {
		session, err := enum.Session(i)
		if err != nil {
			return newPlatformError("get session", err)
		}

		keep, err := visitSession(i, session, visit)
		if err != nil {
			return err
		}

		if keep {
			return nil
		}
	}

	return nil
}

func visitSession(i int, session SessionControl, visit func(int, SessionControl, string) (bool, error)) (keep bool, err error) {
	defer func() {
		if !keep {
			session.Release()
		}
	}()

	raw, err := session.DisplayName()
	if err != nil {
		return false, newPlatformError("get session display name", err)
	}

	return visit(i, session, takeOSString(raw))
}
