package hotkeys

import (
	"sort"
	"testing"
)

func TestIgnoreMasks(t *testing.T) {
	tests := []struct {
		name       string
		caps       uint16
		numLock    uint16
		scrollLock uint16
		want       []uint16
	}{
		{"caps only", 2, 0, 0, []uint16{0, 2}},
		{"caps and numlock", 2, 16, 0, []uint16{0, 2, 16, 18}},
		{"all three", 2, 16, 128, []uint16{0, 2, 16, 18, 128, 130, 144, 146}},
		{"numlock aliases caps", 2, 2, 0, []uint16{0, 2}},
		{"scroll aliases numlock", 2, 16, 16, []uint16{0, 2, 16, 18}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ignoreMasks(tt.caps, tt.numLock, tt.scrollLock)
			sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
			if len(got) != len(tt.want) {
				t.Fatalf("ignoreMasks() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("ignoreMasks() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
