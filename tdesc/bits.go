package tdesc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/apparentlymart/instrinfo/instrinfo"
)

// parseFlagBits parses a bit string written most significant bit first,
// such as "0b01?1". A '?' marks a bit that was never resolved and '_'
// can be used as a separator.
func parseFlagBits(raw string) (instrinfo.BitVector, error) {
	digits := strings.TrimPrefix(raw, "0b")
	var ret instrinfo.BitVector
	for i := len(digits) - 1; i >= 0; i-- {
		switch digits[i] {
		case '0':
			ret = append(ret, instrinfo.Bit0)
		case '1':
			ret = append(ret, instrinfo.Bit1)
		case '?':
			ret = append(ret, instrinfo.BitUnset)
		case '_':
		default:
			return nil, fmt.Errorf("invalid bit %q in %q", digits[i], raw)
		}
	}
	return ret, nil
}

// applyMatchSpec sets the bits named by a spec like "7..4=0x3" or
// "9=1", growing the vector as needed.
func applyMatchSpec(bits instrinfo.BitVector, rawSpec string) (instrinfo.BitVector, error) {
	rawRng, rawWant := partition(rawSpec, "=")
	if rawWant == "" {
		return nil, fmt.Errorf("field %q has no value", rawSpec)
	}
	want, err := strconv.ParseUint(rawWant, 0, 64)
	if err != nil {
		return nil, fmt.Errorf("field %q has invalid value: %v", rawSpec, err)
	}
	rawEnd, rawStart := partition(rawRng, "..")
	if rawStart == "" {
		rawStart = rawEnd
	}
	start, err := strconv.ParseUint(rawStart, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("field %q has invalid range: %v", rawSpec, err)
	}
	end, err := strconv.ParseUint(rawEnd, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("field %q has invalid range: %v", rawSpec, err)
	}
	if end < start {
		return nil, fmt.Errorf("field %q has its range backwards", rawSpec)
	}
	if end > 63 {
		return nil, fmt.Errorf("field %q goes beyond bit 63", rawSpec)
	}
	if end-start < 63 && want>>(end-start+1) != 0 {
		return nil, fmt.Errorf("field %q has a value wider than its range", rawSpec)
	}

	for uint64(len(bits)) <= end {
		bits = append(bits, instrinfo.Bit0)
	}
	for i := start; i <= end; i++ {
		if want&(1<<(i-start)) != 0 {
			bits[i] = instrinfo.Bit1
		} else {
			bits[i] = instrinfo.Bit0
		}
	}
	return bits, nil
}

func partition(s string, sep string) (l, r string) {
	idx := strings.Index(s, sep)
	if idx == -1 {
		return s, ""
	}
	return s[:idx], s[idx+len(sep):]
}
