package instrinfo

import (
	"errors"
	"fmt"
	"strings"
)

// Bit is a single bit of a target flag vector. The description language
// allows a bit to be left unresolved, which is never valid by the time
// tables are built.
type Bit int8

const (
	BitUnset Bit = -1
	Bit0     Bit = 0
	Bit1     Bit = 1
)

// BitVector is a little-endian vector of bits: element i is bit i.
type BitVector []Bit

var (
	errUnresolvedBit = errors.New("unresolved bit")
	errTooWide       = errors.New("more than 64 bits")
)

// Value packs the vector into an integer.
func (v BitVector) Value() (uint64, error) {
	if len(v) > 64 {
		return 0, errTooWide
	}
	var ret uint64
	for i, b := range v {
		switch b {
		case Bit0:
		case Bit1:
			ret |= 1 << uint(i)
		default:
			return 0, fmt.Errorf("%w at position %d", errUnresolvedBit, i)
		}
	}
	return ret, nil
}

func (v BitVector) String() string {
	var b strings.Builder
	b.WriteString("0b")
	for i := len(v) - 1; i >= 0; i-- {
		switch v[i] {
		case Bit0:
			b.WriteByte('0')
		case Bit1:
			b.WriteByte('1')
		default:
			b.WriteByte('?')
		}
	}
	return b.String()
}
