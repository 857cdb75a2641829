package volfix

// DeviceInfo represents information about an active render device
type DeviceInfo struct {
	Index int    // position in the active render endpoint collection
	Name  string // Friendly name of the device
}

// PropertyKey identifies a single entry in a device property store
type PropertyKey struct {
	FmtID string
	PID   uint32
}

// PKeyDeviceFriendlyName is the property holding a device's human-readable label
var PKeyDeviceFriendlyName = PropertyKey{
	FmtID: "{A45C254E-DF1C-4EFD-8020-67D146A850E0}",
	PID:   14,
}

// Backend represents the platform audio subsystem. Initialize must be called
// once, before any enumeration, and Release once when the process is done with it
type Backend interface {
	Initialize() error
	Enumerator() (EndpointEnumerator, error)

	Release() error
}

// EndpointEnumerator hands out collections of audio endpoints
type EndpointEnumerator interface {
	ActiveRenderEndpoints() (EndpointCollection, error)

	Release()
}

// EndpointCollection is an indexed, finite sequence of endpoints. Indices are
// valid in [0, Count()) for the lifetime of the collection
type EndpointCollection interface {
	Count() (int, error)
	Item(i int) (Endpoint, error)

	Release()
}

// Endpoint is a single audio rendering device
type Endpoint interface {
	OpenPropertyStore() (PropertyStore, error)

	// OpenSessionEnumerator activates the device's session manager and
	// returns a snapshot of its sessions
	OpenSessionEnumerator() (SessionEnumerator, error)

	Release()
}

// PropertyStore is a read-only view of an endpoint's key/value metadata
type PropertyStore interface {
	Count() (int, error)
	KeyAt(i int) (PropertyKey, error)
	StringValue(key PropertyKey) (OSString, error)

	Release()
}
