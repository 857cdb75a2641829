// Package audiotest provides an in-memory audio subsystem for exercising
// volfix without real hardware. Every object and string it hands out is
// counted so tests can assert nothing leaks and nothing is freed twice.
package audiotest

import (
	"fmt"

	"github.com/stalexteam/volfix/pkg/volfix"
)

// Tracker counts the resources handed out by the fake subsystem
type Tracker struct {
	Strings      int
	StringsFreed int
	DoubleFrees  int

	Objects        int
	ObjectsFreed   int
	DoubleReleases int
}

// OutstandingStrings is the number of strings handed out and not yet freed
func (t *Tracker) OutstandingStrings() int {
	return t.Strings - t.StringsFreed
}

// OutstandingObjects is the number of objects handed out and not yet released
func (t *Tracker) OutstandingObjects() int {
	return t.Objects - t.ObjectsFreed
}

type handle struct {
	tracker  *Tracker
	released bool
}

func (t *Tracker) newHandle() *handle {
	t.Objects++
	return &handle{tracker: t}
}

func (h *handle) Release() {
	if h.released {
		h.tracker.DoubleReleases++
		return
	}

	h.released = true
	h.tracker.ObjectsFreed++
}

type osString struct {
	tracker *Tracker
	value   string
	freed   bool
}

func (t *Tracker) newString(value string) *osString {
	t.Strings++
	return &osString{tracker: t, value: value}
}

func (s *osString) String() string {
	return s.value
}

func (s *osString) Free() {
	if s.freed {
		s.tracker.DoubleFrees++
		return
	}

	s.freed = true
	s.tracker.StringsFreed++
}

// Backend is a fake audio subsystem
type Backend struct {
	Tracker

	Devices []*Device

	InitializeErr error
	EnumeratorErr error
	EndpointsErr  error

	InitializeCalls int
	ReleaseCalls    int
}

// Device is a fake render endpoint
type Device struct {
	Name string

	// Description is exposed under the same format ID as the friendly name
	// but a different property ID
	Description string

	Sessions []*Session

	PropertyStoreErr  error
	PropertyKeyErr    error
	PropertyValueErr  error
	SessionManagerErr error

	Released int
}

// Session is a fake application audio session
type Session struct {
	Name   string
	PID    uint32
	Volume float32

	// FetchErr fails the enumerator's lookup of this session
	FetchErr       error
	DisplayNameErr error

	NoVolumeControl bool
	SetVolumeErr    error

	NameReads int
	SetCalls  []float32
	Released  int
}

// NewBackend creates a fake subsystem exposing the given devices in order
func NewBackend(devices ...*Device) *Backend {
	return &Backend{Devices: devices}
}

// NewDevice creates a fake device carrying the given sessions
func NewDevice(name string, sessions ...*Session) *Device {
	return &Device{Name: name, Sessions: sessions}
}

// NewSession creates a fake session at full volume
func NewSession(name string, pid uint32) *Session {
	return &Session{Name: name, PID: pid, Volume: 1}
}

func (b *Backend) Initialize() error {
	b.InitializeCalls++
	return b.InitializeErr
}

func (b *Backend) Enumerator() (volfix.EndpointEnumerator, error) {
	if b.EnumeratorErr != nil {
		return nil, b.EnumeratorErr
	}

	return &enumerator{handle: b.newHandle(), backend: b}, nil
}

func (b *Backend) Release() error {
	b.ReleaseCalls++
	return nil
}

type enumerator struct {
	*handle
	backend *Backend
}

func (e *enumerator) ActiveRenderEndpoints() (volfix.EndpointCollection, error) {
	if e.backend.EndpointsErr != nil {
		return nil, e.backend.EndpointsErr
	}

	return &collection{handle: e.backend.newHandle(), backend: e.backend}, nil
}

type collection struct {
	*handle
	backend *Backend
}

func (c *collection) Count() (int, error) {
	return len(c.backend.Devices), nil
}

func (c *collection) Item(i int) (volfix.Endpoint, error) {
	if i < 0 || i >= len(c.backend.Devices) {
		return nil, fmt.Errorf("device index %d out of range", i)
	}

	return &endpoint{handle: c.backend.newHandle(), backend: c.backend, device: c.backend.Devices[i]}, nil
}

type endpoint struct {
	*handle
	backend *Backend
	device  *Device
}

func (e *endpoint) Release() {
	if !e.released {
		e.device.Released++
	}
	e.handle.Release()
}

func (e *endpoint) OpenPropertyStore() (volfix.PropertyStore, error) {
	if e.device.PropertyStoreErr != nil {
		return nil, e.device.PropertyStoreErr
	}

	store := &propertyStore{
		handle:  e.backend.newHandle(),
		backend: e.backend,
		device:  e.device,
		values:  map[volfix.PropertyKey]string{},
	}

	store.add(volfix.PropertyKey{FmtID: "{B3F8FA53-0004-438E-9003-51A46E139BFC}", PID: 6}, "fake driver")
	if e.device.Description != "" {
		store.add(volfix.PropertyKey{FmtID: volfix.PKeyDeviceFriendlyName.FmtID, PID: 2}, e.device.Description)
	}
	if e.device.Name != "" {
		store.add(volfix.PKeyDeviceFriendlyName, e.device.Name)
	}

	return store, nil
}

func (e *endpoint) OpenSessionEnumerator() (volfix.SessionEnumerator, error) {
	if e.device.SessionManagerErr != nil {
		return nil, e.device.SessionManagerErr
	}

	return &sessionEnumerator{handle: e.backend.newHandle(), backend: e.backend, device: e.device}, nil
}

type propertyStore struct {
	*handle
	backend *Backend
	device  *Device
	keys    []volfix.PropertyKey
	values  map[volfix.PropertyKey]string
}

func (s *propertyStore) add(key volfix.PropertyKey, value string) {
	s.keys = append(s.keys, key)
	s.values[key] = value
}

func (s *propertyStore) Count() (int, error) {
	return len(s.keys), nil
}

func (s *propertyStore) KeyAt(i int) (volfix.PropertyKey, error) {
	if s.device.PropertyKeyErr != nil {
		return volfix.PropertyKey{}, s.device.PropertyKeyErr
	}

	if i < 0 || i >= len(s.keys) {
		return volfix.PropertyKey{}, fmt.Errorf("property index %d out of range", i)
	}

	return s.keys[i], nil
}

func (s *propertyStore) StringValue(key volfix.PropertyKey) (volfix.OSString, error) {
	if s.device.PropertyValueErr != nil {
		return nil, s.device.PropertyValueErr
	}

	value, ok := s.values[key]
	if !ok {
		return nil, fmt.Errorf("no property %s/%d", key.FmtID, key.PID)
	}

	return s.backend.newString(value), nil
}

type sessionEnumerator struct {
	*handle
	backend *Backend
	device  *Device
}

func (e *sessionEnumerator) Count() (int, error) {
	return len(e.device.Sessions), nil
}

func (e *sessionEnumerator) Session(i int) (volfix.SessionControl, error) {
	if i < 0 || i >= len(e.device.Sessions) {
		return nil, fmt.Errorf("session index %d out of range", i)
	}

	if err := e.device.Sessions[i].FetchErr; err != nil {
		return nil, err
	}

	return &sessionControl{handle: e.backend.newHandle(), backend: e.backend, session: e.device.Sessions[i]}, nil
}

type sessionControl struct {
	*handle
	backend *Backend
	session *Session
}

func (s *sessionControl) Release() {
	if !s.released {
		s.session.Released++
	}
	s.handle.Release()
}

func (s *sessionControl) DisplayName() (volfix.OSString, error) {
	if s.session.DisplayNameErr != nil {
		return nil, s.session.DisplayNameErr
	}

	s.session.NameReads++
	return s.backend.newString(s.session.Name), nil
}

func (s *sessionControl) ProcessID() (uint32, error) {
	return s.session.PID, nil
}

func (s *sessionControl) SimpleVolume() (volfix.SimpleVolume, error) {
	if s.session.NoVolumeControl {
		return nil, fmt.Errorf("no such interface supported")
	}

	return &simpleVolume{handle: s.backend.newHandle(), session: s.session}, nil
}

type simpleVolume struct {
	*handle
	session *Session
}

func (v *simpleVolume) GetMasterVolume() (float32, error) {
	return v.session.Volume, nil
}

func (v *simpleVolume) SetMasterVolume(level float32) error {
	v.session.SetCalls = append(v.session.SetCalls, level)

	if v.session.SetVolumeErr != nil {
		return v.session.SetVolumeErr
	}

	v.session.Volume = level

	return nil
}
