package serialport

import "math"

// speedT is the type of unix.Termios.Ispeed and Ospeed.
type speedT = uint32

const maxSpeed = math.MaxUint32
