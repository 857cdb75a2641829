//go:build windows

package volfix

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	wca "github.com/moutend/go-wca"
	"go.uber.org/zap"
)

type wcaBackend struct {
	logger *zap.SugaredLogger

	// sessions are tagged with an all-zero event context
	eventCtx *ole.GUID
}

type wcaEnumerator struct {
	mmDeviceEnumerator *wca.IMMDeviceEnumerator
	backend            *wcaBackend
}

type wcaCollection struct {
	collection *wca.IMMDeviceCollection
	backend    *wcaBackend
}

type wcaEndpoint struct {
	device  *wca.IMMDevice
	backend *wcaBackend
}

type wcaPropertyStore struct {
	store *wca.IPropertyStore
}

// NewPlatformBackend returns the Windows Core Audio backend
func NewPlatformBackend(logger *zap.SugaredLogger) (Backend, error) {
	b := &wcaBackend{
		logger:   logger.Named("wca"),
		eventCtx: &ole.GUID{},
	}

	b.logger.Debug("Created WCA backend instance")

	return b, nil
}

func (b *wcaBackend) Initialize() error {

	// COM state belongs to the OS thread, keep this goroutine on it until Release
	runtime.LockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {

		// S_FALSE means COM was already initialized on this thread, which is fine
		const sFalse = 1

		var oleError *ole.OleError
		if errors.As(err, &oleError) && oleError.Code() == sFalse {
			b.logger.Warn("CoInitializeEx failed with S_FALSE due to redundant invocation")
		} else {
			b.logger.Warnw("Failed to call CoInitializeEx", "error", err)
			runtime.UnlockOSThread()

			return fmt.Errorf("call CoInitializeEx: %w", err)
		}
	}

	b.logger.Debug("Initialized COM")

	return nil
}

func (b *wcaBackend) Enumerator() (EndpointEnumerator, error) {
	var mmDeviceEnumerator *wca.IMMDeviceEnumerator

	if err := wca.CoCreateInstance(
		wca.CLSID_MMDeviceEnumerator,
		0,
		wca.CLSCTX_ALL,
		wca.IID_IMMDeviceEnumerator,
		&mmDeviceEnumerator,
	); err != nil {
		b.logger.Warnw("Failed to call CoCreateInstance", "error", err)
		return nil, fmt.Errorf("call CoCreateInstance: %w", err)
	}

	b.logger.Debug("Created device enumerator")

	return &wcaEnumerator{mmDeviceEnumerator: mmDeviceEnumerator, backend: b}, nil
}

func (b *wcaBackend) Release() error {
	ole.CoUninitialize()
	runtime.UnlockOSThread()

	b.logger.Debug("Released WCA backend instance")

	return nil
}

func (e *wcaEnumerator) ActiveRenderEndpoints() (EndpointCollection, error) {
	var collection *wca.IMMDeviceCollection

	if err := e.mmDeviceEnumerator.EnumAudioEndpoints(wca.ERender, wca.DEVICE_STATE_ACTIVE, &collection); err != nil {
		e.backend.logger.Warnw("Failed to enumerate active audio endpoints", "error", err)
		return nil, fmt.Errorf("enumerate active audio endpoints: %w", err)
	}

	return &wcaCollection{collection: collection, backend: e.backend}, nil
}

func (e *wcaEnumerator) Release() {
	e.mmDeviceEnumerator.Release()
}

func (c *wcaCollection) Count() (int, error) {
	var count uint32

	if err := c.collection.GetCount(&count); err != nil {
		return 0, fmt.Errorf("get device count from device collection: %w", err)
	}

	return int(count), nil
}

func (c *wcaCollection) Item(i int) (Endpoint, error) {
	var device *wca.IMMDevice

	if err := c.collection.Item(uint32(i), &device); err != nil {
		return nil, fmt.Errorf("get device %d from device collection: %w", i, err)
	}

	return &wcaEndpoint{device: device, backend: c.backend}, nil
}

func (c *wcaCollection) Release() {
	c.collection.Release()
}

func (d *wcaEndpoint) OpenPropertyStore() (PropertyStore, error) {
	var store *wca.IPropertyStore

	if err := d.device.OpenPropertyStore(wca.STGM_READ, &store); err != nil {
		return nil, fmt.Errorf("open endpoint property store: %w", err)
	}

	return &wcaPropertyStore{store: store}, nil
}

func (d *wcaEndpoint) OpenSessionEnumerator() (SessionEnumerator, error) {
	var audioSessionManager2 *wca.IAudioSessionManager2

	if err := d.device.Activate(
		wca.IID_IAudioSessionManager2,
		wca.CLSCTX_ALL,
		nil,
		&audioSessionManager2,
	); err != nil {
		d.backend.logger.Warnw("Failed to activate endpoint as IAudioSessionManager2", "error", err)
		return nil, fmt.Errorf("activate endpoint: %w", err)
	}

	var sessionEnumerator *wca.IAudioSessionEnumerator

	if err := audioSessionManager2.GetSessionEnumerator(&sessionEnumerator); err != nil {
		audioSessionManager2.Release()
		return nil, fmt.Errorf("get session enumerator: %w", err)
	}

	return &wcaSessionEnumerator{
		manager:    audioSessionManager2,
		enumerator: sessionEnumerator,
		backend:    d.backend,
	}, nil
}

func (d *wcaEndpoint) Release() {
	d.device.Release()
}

func (s *wcaPropertyStore) Count() (int, error) {
	var count uint32

	if err := s.store.GetCount(&count); err != nil {
		return 0, fmt.Errorf("get property count: %w", err)
	}

	return int(count), nil
}

func (s *wcaPropertyStore) KeyAt(i int) (PropertyKey, error) {
	var key wca.PropertyKey

	if err := s.store.GetAt(uint32(i), &key); err != nil {
		return PropertyKey{}, fmt.Errorf("get property key %d: %w", i, err)
	}

	return PropertyKey{FmtID: key.GUID.String(), PID: key.PID}, nil
}

func (s *wcaPropertyStore) StringValue(key PropertyKey) (OSString, error) {
	pkey, err := wcaPropertyKey(key)
	if err != nil {
		return nil, err
	}

	var value wca.PROPVARIANT
	if err := s.store.GetValue(pkey, &value); err != nil {
		return nil, fmt.Errorf("get property value: %w", err)
	}
	defer propVariantClear(unsafe.Pointer(&value))

	str, err := propVariantToString(unsafe.Pointer(&value))
	if err != nil {
		return nil, fmt.Errorf("convert property value to string: %w", err)
	}

	return str, nil
}

func (s *wcaPropertyStore) Release() {
	s.store.Release()
}

// wcaPropertyKey maps key back to its native form, using go-wca's own
// definition for the friendly name
func wcaPropertyKey(key PropertyKey) (*wca.PropertyKey, error) {
	if key.Matches(PKeyDeviceFriendlyName) {
		pkey := wca.PKEY_Device_FriendlyName
		return &pkey, nil
	}

	fmtID := ole.NewGUID(key.FmtID)
	if fmtID == nil {
		return nil, fmt.Errorf("malformed property format id %q", key.FmtID)
	}

	return &wca.PropertyKey{GUID: *fmtID, PID: key.PID}, nil
}
