package analysis

import "testing"

func TestClassify(t *testing.T) {
	eqs, err := FindEquilibria(cubic, -5, 5, 400)
	if err != nil {
		t.Fatal(err)
	}
	if len(eqs) != 3 {
		t.Fatalf("got %v, expected three equilibria", eqs)
	}
	// Snap to exact values so fixed-point checks do not depend on bisection.
	for i := range eqs {
		eqs[i].Value = []float64{-1, 0, 2}[i]
	}

	tests := []struct {
		y0       float64
		expected Regime
	}{
		{-1.2, Diverging},
		{-1, Fixed},
		{-0.5, Bounded},
		{0, Fixed},
		{0.5, Bounded},
		{1.5, Bounded},
		{2, Fixed},
		{2.2, Diverging},
	}

	for _, tt := range tests {
		if got := Classify(cubic, tt.y0, eqs); got != tt.expected {
			t.Errorf("Classify(%v): got %v, expected %v", tt.y0, got, tt.expected)
		}
	}
}

func TestWindow(t *testing.T) {
	const short, long = 1.0, 25.0

	if w := Window(Diverging, short, long); w > 2 {
		t.Errorf("diverging window got %f, expected <= 2", w)
	}
	if w := Window(Bounded, short, long); w < 20 {
		t.Errorf("bounded window got %f, expected >= 20", w)
	}
	if w := Window(Fixed, short, long); w != long {
		t.Errorf("fixed window got %f, expected %f", w, long)
	}
}

func TestParseRegime(t *testing.T) {
	for _, r := range []Regime{Fixed, Bounded, Diverging} {
		got, err := ParseRegime(r.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != r {
			t.Errorf("ParseRegime(%q): got %v", r.String(), got)
		}
	}
	if _, err := ParseRegime("chaotic"); err == nil {
		t.Error("expected error for unknown regime")
	}
}
