//go:build !linux && !darwin && !freebsd && !windows

package serialport

func openPlatformDevice(name string) (device, error) {
	return nil, newError("open", name, ErrUnsupported, nil)
}

// unsupportedDevice lets NewConnection hand back a Connection whose every
// operation reports ErrUnsupported.
type unsupportedDevice struct{}

func wrapPlatformDevice(uintptr) device { return unsupportedDevice{} }

func (unsupportedDevice) Read([]byte) (int, error)  { return 0, ErrUnsupported }
func (unsupportedDevice) Write([]byte) (int, error) { return 0, ErrUnsupported }
func (unsupportedDevice) Drain() error              { return ErrUnsupported }
func (unsupportedDevice) SetParams(Params) error    { return ErrUnsupported }
func (unsupportedDevice) Fd() uintptr               { return ^uintptr(0) }
func (unsupportedDevice) Close() error              { return nil }

func isBusy(error) bool { return false }

func isRejected(error) bool { return false }
