package axis

import "testing"

func TestNewDistanceAxisSpansDiameter(t *testing.T) {
	tests := []struct {
		width, diameter float64
	}{
		{1.0, 40.0},
		{0.5, 33.0},
		{1.0, 1.0},
	}
	for _, tt := range tests {
		a := NewDistanceAxis(tt.width, tt.diameter)
		span := float64(a.Bins) * tt.width
		if span < tt.diameter {
			t.Errorf("width=%.2f diameter=%.2f: axis span %.2f < diameter", tt.width, tt.diameter, span)
		}
	}
}

func TestAxisValueRoundTrips(t *testing.T) {
	a := NewLinearAxis(0, 10, 11)
	for i := 0; i <= 10; i++ {
		got := a.Value(i)
		if got != float64(i) {
			t.Errorf("Value(%d) = %.4f, want %d", i, got, i)
		}
	}
}

func TestAxisIndexOfInverseOfBinCenter(t *testing.T) {
	a := NewLinearAxis(0, 100, 100)
	for i := 0; i < 100; i++ {
		idx, ok := a.IndexOf(a.BinCenter(i))
		if !ok {
			t.Fatalf("IndexOf(BinCenter(%d)) reported out of range", i)
		}
		if idx != i {
			t.Errorf("IndexOf(BinCenter(%d)) = %d, want %d", i, idx, i)
		}
	}
}

func TestAxisIndexOfOutOfRange(t *testing.T) {
	a := NewLinearAxis(0, 10, 10)
	if _, ok := a.IndexOf(-1); ok {
		t.Error("IndexOf(-1) should report out of range")
	}
	if _, ok := a.IndexOf(10); ok {
		t.Error("IndexOf(Max) should report out of range (half-open)")
	}
}

func TestLogAxisMonotonic(t *testing.T) {
	a := NewLogAxis(0.01, 1.0, 50)
	prev := a.Value(0)
	for i := 1; i < 50; i++ {
		v := a.Value(i)
		if v <= prev {
			t.Fatalf("log axis not monotonic at bin %d: %.6f <= %.6f", i, v, prev)
		}
		prev = v
	}
}

func TestShortenDropsTrailingZeroBins(t *testing.T) {
	a := NewLinearAxis(0, 100, 100)
	nonZero := make([]bool, 100)
	for i := 0; i < 30; i++ {
		nonZero[i] = true
	}
	short := a.Shorten(nonZero, 10)
	if short.Bins != 30 {
		t.Errorf("Shorten: Bins = %d, want 30", short.Bins)
	}
}

func TestShortenRespectsMinBinsFloor(t *testing.T) {
	a := NewLinearAxis(0, 100, 100)
	nonZero := make([]bool, 100)
	nonZero[2] = true
	short := a.Shorten(nonZero, 10)
	if short.Bins != 10 {
		t.Errorf("Shorten: Bins = %d, want floor of 10", short.Bins)
	}
}
