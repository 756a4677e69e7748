package model

import "testing"

func TestNewRectNormalizes(t *testing.T) {
	r := NewRect(10, 20, 5, 2)
	want := Rect{X0: 5, Y0: 2, X1: 10, Y1: 20}
	if r != want {
		t.Errorf("NewRect = %+v, want %+v", r, want)
	}
}

func TestRectDimensions(t *testing.T) {
	r := Rect{X0: 10, Y0: 20, X1: 40, Y1: 100}
	if r.Width() != 30 {
		t.Errorf("Width = %v, want 30", r.Width())
	}
	if r.Height() != 80 {
		t.Errorf("Height = %v, want 80", r.Height())
	}
	if r.Area() != 2400 {
		t.Errorf("Area = %v, want 2400", r.Area())
	}
	if (Rect{}).Area() != 0 {
		t.Errorf("zero rect Area = %v, want 0", (Rect{}).Area())
	}
}

func TestRectUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{
			name: "disjoint",
			a:    Rect{X0: 0, Y0: 0, X1: 10, Y1: 10},
			b:    Rect{X0: 20, Y0: 20, X1: 30, Y1: 30},
			want: Rect{X0: 0, Y0: 0, X1: 30, Y1: 30},
		},
		{
			name: "contained",
			a:    Rect{X0: 0, Y0: 0, X1: 100, Y1: 100},
			b:    Rect{X0: 10, Y0: 10, X1: 20, Y1: 20},
			want: Rect{X0: 0, Y0: 0, X1: 100, Y1: 100},
		},
		{
			name: "overlapping",
			a:    Rect{X0: 0, Y0: 0, X1: 15, Y1: 15},
			b:    Rect{X0: 10, Y0: 10, X1: 25, Y1: 25},
			want: Rect{X0: 0, Y0: 0, X1: 25, Y1: 25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Union(tt.b); got != tt.want {
				t.Errorf("Union = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"overlapping", Rect{0, 0, 10, 10}, Rect{5, 5, 15, 15}, true},
		{"touching edge", Rect{0, 0, 10, 10}, Rect{10, 0, 20, 10}, true},
		{"disjoint", Rect{0, 0, 10, 10}, Rect{11, 0, 20, 10}, false},
		{"contained", Rect{0, 0, 100, 100}, Rect{40, 40, 60, 60}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectIntersection(t *testing.T) {
	a := Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b := Rect{X0: 5, Y0: 5, X1: 15, Y1: 15}
	want := Rect{X0: 5, Y0: 5, X1: 10, Y1: 10}
	if got := a.Intersection(b); got != want {
		t.Errorf("Intersection = %+v, want %+v", got, want)
	}

	c := Rect{X0: 50, Y0: 50, X1: 60, Y1: 60}
	if got := a.Intersection(c); got != (Rect{}) {
		t.Errorf("Intersection of disjoint rects = %+v, want zero", got)
	}
}

func TestRectExpandClampsToOrigin(t *testing.T) {
	r := Rect{X0: 2, Y0: 2, X1: 100, Y1: 100}
	got := r.Expand(4)
	want := Rect{X0: 0, Y0: 0, X1: 104, Y1: 104}
	if got != want {
		t.Errorf("Expand = %+v, want %+v", got, want)
	}
}

func TestRectContains(t *testing.T) {
	outer := Rect{X0: 0, Y0: 0, X1: 100, Y1: 100}
	if !outer.Contains(Rect{X0: 10, Y0: 10, X1: 90, Y1: 90}) {
		t.Error("expected inner rect to be contained")
	}
	if outer.Contains(Rect{X0: 10, Y0: 10, X1: 110, Y1: 90}) {
		t.Error("rect extending past the right edge must not be contained")
	}
	if !outer.Contains(outer) {
		t.Error("a rect contains itself")
	}
}

func TestRectValidity(t *testing.T) {
	if (Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}).IsEmpty() {
		t.Error("positive-area rect reported empty")
	}
	if !(Rect{X0: 10, Y0: 10, X1: 10, Y1: 20}).IsEmpty() {
		t.Error("zero-width rect reported non-empty")
	}
}
