package volfix

import (
	"strings"

	"go.uber.org/zap"
)

// FindDevice returns the first active render device, in enumeration order,
// whose friendly name starts with prefix. The match is case-sensitive. The
// caller owns the returned endpoint and must Release it
func FindDevice(logger *zap.SugaredLogger, enum EndpointEnumerator, prefix string) (Endpoint, error) {
	logger = logger.Named("device_locator")

	var found Endpoint

	err := forEachEndpoint(enum, func(i int, device Endpoint) (bool, error) {
		matched, err := propertyStoreHasFriendlyName(device, func(name string) bool {
			return strings.HasPrefix(name, prefix)
		})
		if err != nil {
			return false, err
		}

		if matched {
			logger.Debugw("Found matching device", "index", i, "prefix", prefix)
			found = device
			return true, nil
		}

		return false, nil
	})
	if err != nil {
		return nil, err
	}

	if found == nil {
		logger.Debugw("No device matched", "prefix", prefix)
		return nil, ErrDeviceNotFound
	}

	return found, nil
}

// ListDevices returns the friendly name of every active render device
func ListDevices(logger *zap.SugaredLogger, enum EndpointEnumerator) ([]DeviceInfo, error) {
	logger = logger.Named("device_locator")

	devices := []DeviceInfo{}

	err := forEachEndpoint(enum, func(i int, device Endpoint) (bool, error) {
		var name string
		if _, err := propertyStoreHasFriendlyName(device, func(n string) bool {
			name = n
			return true
		}); err != nil {
			return false, err
		}

		devices = append(devices, DeviceInfo{Index: i, Name: name})
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debugw("Listed devices", "count", len(devices))

	return devices, nil
}

// forEachEndpoint walks the active render endpoints in index order. visit
// returns true to keep the endpoint and stop; any endpoint it does not keep
// is released before moving on
func forEachEndpoint(enum EndpointEnumerator, visit func(i int, device Endpoint) (bool, error)) error {
	collection, err := enum.ActiveRenderEndpoints()
	if err != nil {
		return newPlatformError("enumerate audio endpoints", err)
	}
	defer collection.Release()

	count, err := collection.Count()
	if err != nil {
		return newPlatformError("get endpoint count", err)
	}

	for i := 0; i < count; i++ {
		device, err := collection.Item(i)
		if err != nil {
			return newPlatformError("get endpoint", err)
		}

		keep, err := visitEndpoint(i, device, visit)
		if err != nil {
			return err
		}

		if keep {
			return nil
		}
	}

	return nil
}

func visitEndpoint(i int, device Endpoint, visit func(int, Endpoint) (bool, error)) (keep bool, err error) {
	defer func() {
		if !keep {
			device.Release()
		}
	}()

	return visit(i, device)
}

// propertyStoreHasFriendlyName scans the device's property store for the
// friendly name entry and reports whether pred accepts it
func propertyStoreHasFriendlyName(device Endpoint, pred func(string) bool) (bool, error) {
	store, err := device.OpenPropertyStore()
	if err != nil {
		return false, newPlatformError("open property store", err)
	}
	defer store.Release()

	count, err := store.Count()
	if err != nil {
		return false, newPlatformError("get property count", err)
	}

	for i := 0; i < count; i++ {
		key, err := store.KeyAt(i)
		if err != nil {
			return false, newPlatformError("get property key", err)
		}

		if !key.Matches(PKeyDeviceFriendlyName) {
			continue
		}

		value, err := store.StringValue(key)
		if err != nil {
			return false, newPlatformError("get friendly name", err)
		}

		if pred(takeOSString(value)) {
			return true, nil
		}
	}

	return false, nil
}

// Matches reports whether two keys name the same property. Format IDs are
// GUID strings and compare case-insensitively
func (k PropertyKey) Matches(other PropertyKey) bool {
	return k.PID == other.PID && strings.EqualFold(k.FmtID, other.FmtID)
}
