//go:build windows

package volfix

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	wca "github.com/moutend/go-wca"
)

// the system sounds session has no single owning process and GetProcessId
// reports it with this undocumented success code
const audclntSNoSingleProcess = 0x889000D

type wcaSessionEnumerator struct {
	manager    *wca.IAudioSessionManager2
	enumerator *wca.IAudioSessionEnumerator
	backend    *wcaBackend
}

type wcaSession struct {
	control *wca.IAudioSessionControl
	backend *wcaBackend
}

type wcaVolume struct {
	volume   *wca.ISimpleAudioVolume
	eventCtx *ole.GUID
}

func (e *wcaSessionEnumerator) Count() (int, error) {
	var count int

	if err := e.enumerator.GetCount(&count); err != nil {
		return 0, fmt.Errorf("get session count: %w", err)
	}

	return count, nil
}

func (e *wcaSessionEnumerator) Session(i int) (SessionControl, error) {
	var control *wca.IAudioSessionControl

	if err := e.enumerator.GetSession(i, &control); err != nil {
		return nil, fmt.Errorf("get session %d from enumerator: %w", i, err)
	}

	return &wcaSession{control: control, backend: e.backend}, nil
}

func (e *wcaSessionEnumerator) Release() {
	e.enumerator.Release()
	e.manager.Release()
}

// DisplayName calls GetDisplayName through the vtable so that we, not the
// wrapper, own the returned buffer
func (s *wcaSession) DisplayName() (OSString, error) {
	var ptr *uint16

	hr, _, _ := syscall.SyscallN(
		s.control.VTable().GetDisplayName,
		uintptr(unsafe.Pointer(s.control)),
		uintptr(unsafe.Pointer(&ptr)),
	)
	if failed(hr) {
		return nil, fmt.Errorf("get session display name: %w", ole.NewError(hr))
	}

	return coTaskString{ptr: ptr}, nil
}

func (s *wcaSession) ProcessID() (uint32, error) {
	dispatch, err := s.control.QueryInterface(wca.IID_IAudioSessionControl2)
	if err != nil {
		return 0, fmt.Errorf("query session control2: %w", err)
	}

	control2 := (*wca.IAudioSessionControl2)(unsafe.Pointer(dispatch))
	defer control2.Release()

	var pid uint32
	if err := control2.GetProcessId(&pid); err != nil {
		var oleError *ole.OleError
		if errors.As(err, &oleError) && oleError.Code() == audclntSNoSingleProcess {
			return 0, nil
		}

		return 0, fmt.Errorf("get session process id: %w", err)
	}

	return pid, nil
}

func (s *wcaSession) SimpleVolume() (SimpleVolume, error) {
	dispatch, err := s.control.QueryInterface(wca.IID_ISimpleAudioVolume)
	if err != nil {
		s.backend.logger.Warnw("Session does not support ISimpleAudioVolume", "error", err)
		return nil, fmt.Errorf("query session volume: %w", err)
	}

	return &wcaVolume{
		volume:   (*wca.ISimpleAudioVolume)(unsafe.Pointer(dispatch)),
		eventCtx: s.backend.eventCtx,
	}, nil
}

func (s *wcaSession) Release() {
	s.control.Release()
}

func (v *wcaVolume) GetMasterVolume() (float32, error) {
	var level float32

	if err := v.volume.GetMasterVolume(&level); err != nil {
		return 0, fmt.Errorf("get master volume: %w", err)
	}

	return level, nil
}

func (v *wcaVolume) SetMasterVolume(level float32) error {
	if err := v.volume.SetMasterVolume(level, v.eventCtx); err != nil {
		return fmt.Errorf("adjust session volume: %w", err)
	}

	return nil
}

func (v *wcaVolume) Release() {
	v.volume.Release()
}
