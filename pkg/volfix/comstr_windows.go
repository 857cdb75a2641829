//go:build windows

package volfix

import (
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
)

var (
	modpropsys = windows.NewLazySystemDLL("propsys.dll")
	modole32   = windows.NewLazySystemDLL("ole32.dll")

	procPropVariantToStringAlloc = modpropsys.NewProc("PropVariantToStringAlloc")
	procPropVariantClear         = modole32.NewProc("PropVariantClear")
)

// coTaskString is a NUL-terminated UTF-16 string that a COM call allocated
// with CoTaskMemAlloc and handed over to us
type coTaskString struct {
	ptr *uint16
}

func (s coTaskString) String() string {
	if s.ptr == nil {
		return ""
	}

	return windows.UTF16PtrToString(s.ptr)
}

func (s coTaskString) Free() {
	if s.ptr != nil {
		ole.CoTaskMemFree(uintptr(unsafe.Pointer(s.ptr)))
	}
}

// propVariantToString renders pv as a freshly allocated string. pv itself is
// left alone and still needs propVariantClear
func propVariantToString(pv unsafe.Pointer) (coTaskString, error) {
	var ptr *uint16

	hr, _, _ := procPropVariantToStringAlloc.Call(uintptr(pv), uintptr(unsafe.Pointer(&ptr)))
	if failed(hr) {
		return coTaskString{}, ole.NewError(hr)
	}

	return coTaskString{ptr: ptr}, nil
}

func propVariantClear(pv unsafe.Pointer) error {
	hr, _, _ := procPropVariantClear.Call(uintptr(pv))
	if failed(hr) {
		return ole.NewError(hr)
	}

	return nil
}

// S_FALSE and friends are successes; only the severity bit means failure
func failed(hr uintptr) bool {
	return int32(hr) < 0
}
