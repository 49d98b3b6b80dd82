package platform

import "testing"

func TestMonitorFor(t *testing.T) {
	displays := []Display{
		{ID: 0, Name: "left", Bounds: Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
		{ID: 1, Name: "right", Bounds: Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}},
	}

	tests := []struct {
		name string
		r    Rect
		want string
	}{
		{"inside left", Rect{X: 100, Y: 100, Width: 60, Height: 60}, "left"},
		{"inside right", Rect{X: 3000, Y: 800, Width: 60, Height: 60}, "right"},
		{"straddling favours larger overlap", Rect{X: 1900, Y: 100, Width: 60, Height: 60}, "right"},
		{"below right monitor", Rect{X: 2500, Y: 2000, Width: 60, Height: 60}, "right"},
		{"far left", Rect{X: -500, Y: 500, Width: 60, Height: 60}, "left"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MonitorFor(displays, tt.r)
			if !ok {
				t.Fatalf("MonitorFor returned !ok")
			}
			if got.Name != tt.want {
				t.Fatalf("MonitorFor() = %q, want %q", got.Name, tt.want)
			}
		})
	}

	if _, ok := MonitorFor(nil, Rect{}); ok {
		t.Fatalf("MonitorFor(nil) should report !ok")
	}
}

func TestDisplayWorkArea(t *testing.T) {
	d := Display{
		Bounds: Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
		Usable: Rect{X: 0, Y: 32, Width: 1920, Height: 1048},
	}
	got := d.WorkArea()
	if got.Position.Y != 32 || got.Size.Height != 1048 || got.Size.Width != 1920 {
		t.Fatalf("WorkArea() = %+v", got)
	}

	d.Usable = Rect{}
	if got := d.WorkArea(); got != d.MonitorBounds() {
		t.Fatalf("WorkArea() without usable area = %+v, want bounds", got)
	}
}
