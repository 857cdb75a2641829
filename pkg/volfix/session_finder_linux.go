//go:build linux

package volfix

import (
	"fmt"
	"net"
	"sort"

	"github.com/jfreymuth/pulse/proto"
	"go.uber.org/zap"
)

const (
	paPropDeviceDescription = "device.description"
	paPropApplicationName   = "application.name"
	paPropProcessID         = "application.process.id"
)

type paBackend struct {
	logger *zap.SugaredLogger

	client *proto.Client
	conn   net.Conn
}

type paEnumerator struct {
	backend *paBackend
}

type paCollection struct {
	backend *paBackend
	sinks   []*proto.GetSinkInfoReply
}

type paEndpoint struct {
	backend *paBackend
	sink    *proto.GetSinkInfoReply
}

type paPropertyStore struct {
	keys   []PropertyKey
	values map[PropertyKey]string
}

// plainString is text that lives in Go memory; freeing it is a no-op
type plainString string

func (s plainString) String() string { return string(s) }
func (s plainString) Free()          {}

// NewPlatformBackend returns the PulseAudio backend. Sinks play the role of
// render devices and sink inputs the role of sessions
func NewPlatformBackend(logger *zap.SugaredLogger) (Backend, error) {
	b := &paBackend{
		logger: logger.Named("pulse"),
	}

	b.logger.Debug("Created PA backend instance")

	return b, nil
}

func (b *paBackend) Initialize() error {
	client, conn, err := proto.Connect("")
	if err != nil {
		b.logger.Warnw("Failed to establish PulseAudio connection", "error", err)
		return fmt.Errorf("establish PulseAudio connection: %w", err)
	}

	request := proto.SetClientName{
		Props: proto.PropList{
			"application.name": proto.PropListString("volfix"),
		},
	}
	reply := proto.SetClientNameReply{}

	if err := client.Request(&request, &reply); err != nil {
		conn.Close()
		return fmt.Errorf("set PulseAudio client name: %w", err)
	}

	b.client = client
	b.conn = conn

	b.logger.Debug("Connected to PulseAudio")

	return nil
}

func (b *paBackend) Enumerator() (EndpointEnumerator, error) {
	if b.client == nil {
		return nil, fmt.Errorf("PulseAudio connection not established")
	}

	return &paEnumerator{backend: b}, nil
}

func (b *paBackend) Release() error {
	if b.conn == nil {
		return nil
	}

	if err := b.conn.Close(); err != nil {
		b.logger.Warnw("Failed to close PulseAudio connection", "error", err)
		return fmt.Errorf("close PulseAudio connection: %w", err)
	}

	b.client = nil
	b.conn = nil

	b.logger.Debug("Released PA backend instance")

	return nil
}

func (e *paEnumerator) ActiveRenderEndpoints() (EndpointCollection, error) {
	request := proto.GetSinkInfoList{}
	reply := proto.GetSinkInfoListReply{}

	if err := e.backend.client.Request(&request, &reply); err != nil {
		e.backend.logger.Warnw("Failed to get sink list", "error", err)
		return nil, fmt.Errorf("get sink list: %w", err)
	}

	sinks := make([]*proto.GetSinkInfoReply, 0, len(reply))
	for _, sink := range reply {
		if sink != nil {
			sinks = append(sinks, sink)
		}
	}

	return &paCollection{backend: e.backend, sinks: sinks}, nil
}

func (e *paEnumerator) Release() {}

func (c *paCollection) Count() (int, error) {
	return len(c.sinks), nil
}

func (c *paCollection) Item(i int) (Endpoint, error) {
	if i < 0 || i >= len(c.sinks) {
		return nil, fmt.Errorf("sink index %d out of range", i)
	}

	return &paEndpoint{backend: c.backend, sink: c.sinks[i]}, nil
}

func (c *paCollection) Release() {}

func (d *paEndpoint) OpenPropertyStore() (PropertyStore, error) {
	store := &paPropertyStore{values: map[PropertyKey]string{}}

	for name, entry := range d.sink.Properties {
		key := PropertyKey{FmtID: name}
		if name == paPropDeviceDescription {
			key = PKeyDeviceFriendlyName
		}

		store.keys = append(store.keys, key)
		store.values[key] = entry.String()
	}

	// older servers don't always set the description property
	if _, ok := store.values[PKeyDeviceFriendlyName]; !ok && d.sink.Device != "" {
		store.keys = append(store.keys, PKeyDeviceFriendlyName)
		store.values[PKeyDeviceFriendlyName] = d.sink.Device
	}

	sort.Slice(store.keys, func(i, j int) bool {
		return store.keys[i].FmtID < store.keys[j].FmtID
	})

	return store, nil
}

func (d *paEndpoint) OpenSessionEnumerator() (SessionEnumerator, error) {
	request := proto.GetSinkInputInfoList{}
	reply := proto.GetSinkInputInfoListReply{}

	if err := d.backend.client.Request(&request, &reply); err != nil {
		d.backend.logger.Warnw("Failed to get sink input list", "error", err)
		return nil, fmt.Errorf("get sink input list: %w", err)
	}

	inputs := []*proto.GetSinkInputInfoReply{}
	for _, info := range reply {
		if info != nil && info.SinkIndex == d.sink.SinkIndex {
			inputs = append(inputs, info)
		}
	}

	return &paSessionEnumerator{backend: d.backend, inputs: inputs}, nil
}

func (d *paEndpoint) Release() {}

func (s *paPropertyStore) Count() (int, error) {
	return len(s.keys), nil
}

func (s *paPropertyStore) KeyAt(i int) (PropertyKey, error) {
	if i < 0 || i >= len(s.keys) {
		return PropertyKey{}, fmt.Errorf("property index %d out of range", i)
	}

	return s.keys[i], nil
}

func (s *paPropertyStore) StringValue(key PropertyKey) (OSString, error) {
	value, ok := s.values[key]
	if !ok {
		return nil, fmt.Errorf("no property %s/%d", key.FmtID, key.PID)
	}

	return plainString(value), nil
}

func (s *paPropertyStore) Release() {}
