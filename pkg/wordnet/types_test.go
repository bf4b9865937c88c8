package wordnet

import "testing"

func TestDecodeST(t *testing.T) {
	cases := []struct {
		hex      string
		src, dst uint16
	}{
		{"0000", 0, 0},
		{"0100", 1, 0},
		{"00ff", 0, 255},
		{"0a0b", 10, 11},
		{"bad", 0, 0},
	}
	for _, c := range cases {
		src, dst := DecodeST(c.hex)
		if src != c.src || dst != c.dst {
			t.Errorf("DecodeST(%q) = (%d,%d), want (%d,%d)", c.hex, src, dst, c.src, c.dst)
		}
	}
}

func TestPosFromChar(t *testing.T) {
	if p, ok := PosFromChar('s'); !ok || p != Adj {
		t.Errorf("PosFromChar('s') should resolve to Adj (satellite)")
	}
	if _, ok := PosFromChar('x'); ok {
		t.Errorf("PosFromChar('x') should fail")
	}
}
