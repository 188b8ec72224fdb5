package tdesc

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/apparentlymart/instrinfo/instrinfo"
)

func TestParseFlagBits(t *testing.T) {
	const (
		z = instrinfo.Bit0
		o = instrinfo.Bit1
		u = instrinfo.BitUnset
	)
	tests := []struct {
		Raw  string
		Want instrinfo.BitVector
	}{
		{"", nil},
		{"0b1", instrinfo.BitVector{o}},
		{"0b0110", instrinfo.BitVector{z, o, o, z}},
		{"1_0?1", instrinfo.BitVector{o, u, z, o}},
	}
	for _, test := range tests {
		got, err := parseFlagBits(test.Raw)
		if err != nil {
			t.Errorf("parseFlagBits(%q): %v", test.Raw, err)
			continue
		}
		if diff := cmp.Diff(test.Want, got); diff != "" {
			t.Errorf("parseFlagBits(%q): (-want, +got)\n%s", test.Raw, diff)
		}
	}
}

func TestApplyMatchSpec(t *testing.T) {
	tests := []struct {
		Specs []string
		Want  uint64
	}{
		{[]string{"0=1"}, 0x1},
		{[]string{"7..4=0xa"}, 0xa0},
		{[]string{"3..0=0xf", "1..0=0"}, 0xc},
		{[]string{"40..33=0xff"}, 0x1fe << 32},
	}
	for _, test := range tests {
		var bits instrinfo.BitVector
		var err error
		for _, spec := range test.Specs {
			bits, err = applyMatchSpec(bits, spec)
			if err != nil {
				t.Fatalf("applyMatchSpec(%q): %v", spec, err)
			}
		}
		got, err := bits.Value()
		if err != nil {
			t.Fatalf("%v: Value(): %v", test.Specs, err)
		}
		if got != test.Want {
			t.Errorf("%v: got %#x, want %#x", test.Specs, got, test.Want)
		}
	}

	for _, spec := range []string{"3..0", "0..3=1", "x=1", "1..0=4", "2=zz", "64=1", "100000000..0=0"} {
		if _, err := applyMatchSpec(nil, spec); err == nil {
			t.Errorf("applyMatchSpec(%q): got no error", spec)
		}
	}
}
