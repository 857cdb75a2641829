//go:build linux

package volfix

import (
	"fmt"
	"strconv"

	"github.com/jfreymuth/pulse/proto"
)

// normal PulseAudio volume (100%)
const paMaxVolume = 0x10000

type paSessionEnumerator struct {
	backend *paBackend
	inputs  []*proto.GetSinkInputInfoReply
}

type paSession struct {
	backend *paBackend
	info    *proto.GetSinkInputInfoReply
}

type paVolume struct {
	backend *paBackend

	sinkInputIndex    uint32
	sinkInputChannels byte
}

func (e *paSessionEnumerator) Count() (int, error) {
	return len(e.inputs), nil
}

func (e *paSessionEnumerator) Session(i int) (SessionControl, error) {
	if i < 0 || i >= len(e.inputs) {
		return nil, fmt.Errorf("sink input index %d out of range", i)
	}

	return &paSession{backend: e.backend, info: e.inputs[i]}, nil
}

func (e *paSessionEnumerator) Release() {}

func (s *paSession) DisplayName() (OSString, error) {
	name, ok := s.info.Properties[paPropApplicationName]
	if !ok {
		s.backend.logger.Debugw("Sink input has no application name", "sinkInputIndex", s.info.SinkInputIndex)
		return plainString(""), nil
	}

	return plainString(name.String()), nil
}

func (s *paSession) ProcessID() (uint32, error) {
	prop, ok := s.info.Properties[paPropProcessID]
	if !ok {
		return 0, nil
	}

	pid, err := strconv.ParseUint(prop.String(), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse sink input process id: %w", err)
	}

	return uint32(pid), nil
}

func (s *paSession) SimpleVolume() (SimpleVolume, error) {
	return &paVolume{
		backend:           s.backend,
		sinkInputIndex:    s.info.SinkInputIndex,
		sinkInputChannels: s.info.Channels,
	}, nil
}

func (s *paSession) Release() {}

func (v *paVolume) GetMasterVolume() (float32, error) {
	request := proto.GetSinkInputInfo{
		SinkInputIndex: v.sinkInputIndex,
	}
	reply := proto.GetSinkInputInfoReply{}

	if err := v.backend.client.Request(&request, &reply); err != nil {
		v.backend.logger.Warnw("Failed to get session volume", "error", err)
		return 0, fmt.Errorf("get sink input info: %w", err)
	}

	return parseChannelVolumes(reply.ChannelVolumes), nil
}

func (v *paVolume) SetMasterVolume(level float32) error {
	request := proto.SetSinkInputVolume{
		SinkInputIndex: v.sinkInputIndex,
		ChannelVolumes: createChannelVolumes(v.sinkInputChannels, level),
	}

	if err := v.backend.client.Request(&request, nil); err != nil {
		v.backend.logger.Warnw("Failed to set session volume", "error", err)
		return fmt.Errorf("adjust session volume: %w", err)
	}

	return nil
}

func (v *paVolume) Release() {}

func createChannelVolumes(channels byte, volume float32) []uint32 {
	volumes := make([]uint32, channels)

	for i := range volumes {
		volumes[i] = uint32(volume * paMaxVolume)
	}

	return volumes
}

func parseChannelVolumes(volumes []uint32) float32 {
	if len(volumes) == 0 {
		return 0
	}

	var level uint32

	for _, volume := range volumes {
		level += volume
	}

	return float32(level) / float32(len(volumes)) / float32(paMaxVolume)
}
