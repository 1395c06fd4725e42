package interact

import (
	"math"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   uint32
		want ControlFlags
	}{
		{"none", 0b00, ControlFlags{}},
		{"click", 0b01, ControlFlags{IsClick: true}},
		{"pretransformed", 0b10, ControlFlags{IsPretransformed: true}},
		{"both", 0b11, ControlFlags{IsClick: true, IsPretransformed: true}},
		{"high bits ignored", 0xFFFF_FFFC, ControlFlags{}},
		{"high bits with click", 0x8000_0001, ControlFlags{IsClick: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decode(tt.in); got != tt.want {
				t.Errorf("Decode(%#b) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncodeDecodeLowBits(t *testing.T) {
	inputs := []uint32{0, 1, 2, 3, 4, 5, 6, 7, 0xDEADBEEF, 0x1234_5678, math.MaxUint32, math.MaxUint32 - 1}
	for v := uint32(0); v < 1024; v++ {
		inputs = append(inputs, v*2654435761)
	}
	for _, v := range inputs {
		f := Decode(v)
		if got := Encode(f.IsClick, f.IsPretransformed); got != v&0b11 {
			t.Fatalf("Encode(Decode(%#x)) = %#b, want %#b", v, got, v&0b11)
		}
		if f.Word() != v&0b11 {
			t.Fatalf("Word() for %#x = %#b", v, f.Word())
		}
	}
}
