package serialport

import (
	"errors"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

// DCB.Flags bits
const (
	dcbBinary         = 0x00000001
	dcbParity         = 0x00000002
	dcbOutxCtsFlow    = 0x00000004
	dcbOutxDsrFlow    = 0x00000008
	dcbDsrSensitivity = 0x00000040
	dcbOutX           = 0x00000100
	dcbInX            = 0x00000200
	dcbErrorChar      = 0x00000400
	dcbNull           = 0x00000800
	dcbAbortOnError   = 0x00004000
	dcbParityNone     = 0
	dcbParityOdd      = 1
	dcbParityEven     = 2
	purgeRxClear      = 0x0008
	purgeTxClear      = 0x0004
	maxDWORD          = 0xFFFFFFFF
)

// commDevice is a COM port handle driven through the DCB API
type commDevice struct {
	h windows.Handle
}

func openPlatformDevice(name string) (device, error) {
	path := name
	if !strings.HasPrefix(path, `\\.\`) {
		path = `\\.\` + path
	}
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, newError("open", name, ErrInvalidArgument, err)
	}

	h, err := windows.CreateFile(p,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		0, // exclusive
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_NORMAL,
		0)
	if err != nil {
		return nil, newError("open", name, classifyOpenError(err), err)
	}

	d := &commDevice{h: h}
	if err := d.configureRaw(); err != nil {
		windows.CloseHandle(h)
		return nil, newError("configure", name, ErrConfiguration, err)
	}
	return d, nil
}

func wrapPlatformDevice(fd uintptr) device {
	return &commDevice{h: windows.Handle(fd)}
}

func (d *commDevice) getState() (*windows.DCB, error) {
	var dcb windows.DCB
	dcb.DCBlength = uint32(unsafe.Sizeof(dcb))
	if err := windows.GetCommState(d.h, &dcb); err != nil {
		return nil, err
	}
	return &dcb, nil
}

// setState discards pending I/O, then applies dcb
func (d *commDevice) setState(dcb *windows.DCB) error {
	if err := windows.PurgeComm(d.h, purgeRxClear|purgeTxClear); err != nil {
		return err
	}
	return windows.SetCommState(d.h, dcb)
}

func (d *commDevice) configureRaw() error {
	dcb, err := d.getState()
	if err != nil {
		return err
	}
	raw := makeRawDCB(*dcb)
	if err := d.setState(&raw); err != nil {
		return err
	}

	// Block until at least one byte is available, then return what is there.
	timeouts := windows.CommTimeouts{
		ReadIntervalTimeout:        maxDWORD,
		ReadTotalTimeoutMultiplier: maxDWORD,
		ReadTotalTimeoutConstant:   maxDWORD - 1,
	}
	return windows.SetCommTimeouts(d.h, &timeouts)
}

// makeRawDCB is the DCB counterpart of makeRaw: binary transfer, no
// XON/XOFF, no byte replacement or stripping, modem status lines ignored.
func makeRawDCB(dcb windows.DCB) windows.DCB {
	dcb.Flags |= dcbBinary
	dcb.Flags &^= dcbOutX | dcbInX | dcbErrorChar | dcbNull | dcbAbortOnError
	dcb.Flags &^= dcbOutxCtsFlow | dcbOutxDsrFlow | dcbDsrSensitivity
	return dcb
}

func applyParamsDCB(dcb windows.DCB, p Params) (windows.DCB, error) {
	if err := p.Validate(); err != nil {
		return dcb, err
	}
	if uint64(p.BaudRate) > maxDWORD {
		return dcb, ErrInvalidBaudRate
	}

	dcb.BaudRate = uint32(p.BaudRate)
	dcb.ByteSize = byte(p.CharSize)
	switch p.Parity {
	case ParityNone:
		dcb.Parity = dcbParityNone
		dcb.Flags &^= dcbParity
	case ParityOdd:
		dcb.Parity = dcbParityOdd
		dcb.Flags |= dcbParity
	case ParityEven:
		dcb.Parity = dcbParityEven
		dcb.Flags |= dcbParity
	}
	return dcb, nil
}

func (d *commDevice) SetParams(p Params) error {
	prev, err := d.getState()
	if err != nil {
		return err
	}
	next, err := applyParamsDCB(*prev, p)
	if err != nil {
		return err
	}
	if err := d.setState(&next); err != nil {
		return err
	}

	got, err := d.getState()
	if err == nil && got.BaudRate == next.BaudRate && got.ByteSize == next.ByteSize && got.Parity == next.Parity {
		return nil
	}
	if rerr := windows.SetCommState(d.h, prev); rerr != nil {
		return errors.Join(errNotApplied, rerr)
	}
	if err != nil {
		return err
	}
	return errNotApplied
}

func (d *commDevice) Read(p []byte) (int, error) {
	var n uint32
	err := windows.ReadFile(d.h, p, &n, nil)
	return int(n), err
}

func (d *commDevice) Write(p []byte) (int, error) {
	var n uint32
	err := windows.WriteFile(d.h, p, &n, nil)
	return int(n), err
}

func (d *commDevice) Drain() error {
	return windows.FlushFileBuffers(d.h)
}

func (d *commDevice) Fd() uintptr {
	return uintptr(d.h)
}

func (d *commDevice) Close() error {
	return windows.CloseHandle(d.h)
}

// A COM port held by another process fails with access denied or a sharing
// violation; both mean the device is in use.
func isBusy(err error) bool {
	return errors.Is(err, windows.ERROR_SHARING_VIOLATION) || errors.Is(err, windows.ERROR_ACCESS_DENIED)
}

func isRejected(err error) bool {
	return errors.Is(err, windows.ERROR_INVALID_PARAMETER)
}
