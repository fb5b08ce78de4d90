package serialport

import "math"

// speedT is the type of unix.Termios.Ispeed and Ospeed.
type speedT = uint64

const maxSpeed = math.MaxInt32
