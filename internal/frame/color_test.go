package frame

import "testing"

func TestParseColor(t *testing.T) {
	cases := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ff0000", Color{255, 0, 0, 255}, false},
		{"#00FF00", Color{0, 255, 0, 255}, false},
		{"#11223344", Color{0x11, 0x22, 0x33, 0x44}, false},
		{"  #336699  ", Color{0x33, 0x66, 0x99, 255}, false},
		{"", Color{255, 255, 255, 255}, false},
		{"ff0000", Color{}, true},
		{"#ff00", Color{}, true},
		{"#zzzzzz", Color{}, true},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseColor(%q): expected error, got %+v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseColor(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	opaque := Color{0x12, 0x34, 0x56, 255}
	if got := opaque.Hex(); got != "#123456" {
		t.Fatalf("opaque hex: %q", got)
	}
	translucent := Color{0x12, 0x34, 0x56, 0x28}
	if got := translucent.Hex(); got != "#12345628" {
		t.Fatalf("translucent hex: %q", got)
	}
	back, err := ParseColor(translucent.Hex())
	if err != nil || back != translucent {
		t.Fatalf("round trip: %+v, %v", back, err)
	}
}

func TestWithAlpha(t *testing.T) {
	c := Color{1, 2, 3, 255}
	if got := c.WithAlpha(40); got != (Color{1, 2, 3, 40}) {
		t.Fatalf("WithAlpha: %+v", got)
	}
}
