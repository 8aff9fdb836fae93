package geometry

import (
	"math"
	"testing"
)

// floatEquals is a helper for testing scalar float values with epsilon.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

func TestNewVectorPolar(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		theta  float64
		want   Vector2D
	}{
		{"Zero radius", 0, 0, Vector2D{0, 0}},
		{"Unit on X-axis", 1, 0, Vector2D{1, 0}},
		{"90 degrees (Y-axis)", 1, math.Pi / 2, Vector2D{0, 1}},
		{"180 degrees (Negative X)", 2, math.Pi, Vector2D{-2, 0}},
		{"45 degrees", math.Sqrt(2), math.Pi / 4, Vector2D{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewVectorPolar(tt.radius, tt.theta)
			if !got.Eq(tt.want) {
				t.Errorf("NewVectorPolar(%v, %v) = %v; want %v", tt.radius, tt.theta, got, tt.want)
			}
		})
	}
}

func TestVector_String(t *testing.T) {
	v := Vector2D{0.126, -3.5}
	want := "(0.13, -3.50)"
	if got := v.String(); got != want {
		t.Errorf("Vector2D.String() = %q; want %q", got, want)
	}
}

func TestVector_Arithmetic(t *testing.T) {
	v1 := Vector2D{1, 2}
	v2 := Vector2D{3, 4}

	t.Run("Add", func(t *testing.T) {
		if got, want := v1.Add(v2), (Vector2D{4, 6}); !got.Eq(want) {
			t.Errorf("%v.Add(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Sub", func(t *testing.T) {
		if got, want := v1.Sub(v2), (Vector2D{-2, -2}); !got.Eq(want) {
			t.Errorf("%v.Sub(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Mul", func(t *testing.T) {
		if got, want := v1.Mul(-0.5), (Vector2D{-0.5, -1}); !got.Eq(want) {
			t.Errorf("%v.Mul(-0.5) = %v; want %v", v1, got, want)
		}
	})

	t.Run("Dot", func(t *testing.T) {
		if got := v1.Dot(v2); got != 11 {
			t.Errorf("Dot = %v; want 11", got)
		}
		if got := (Vector2D{1, 0}).Dot(Vector2D{0, 1}); got != 0 {
			t.Errorf("Dot orthogonal = %v; want 0", got)
		}
	})

	t.Run("IsZero", func(t *testing.T) {
		if !Zero.IsZero() {
			t.Error("Zero.IsZero() = false")
		}
		if (Vector2D{Epsilon / 2, 0}).IsZero() {
			t.Error("tiny vector must not be exactly zero")
		}
	})
}

func TestVector_Magnitude(t *testing.T) {
	v := Vector2D{3, 4} // 3-4-5 triangle

	t.Run("Len", func(t *testing.T) {
		if got := v.Len(); got != 5 {
			t.Errorf("Len = %v; want 5", got)
		}
	})

	t.Run("LenSqr", func(t *testing.T) {
		if got := v.LenSqr(); got != 25 {
			t.Errorf("LenSqr = %v; want 25", got)
		}
	})

	t.Run("Normalize", func(t *testing.T) {
		got := v.Normalize()
		if want := (Vector2D{0.6, 0.8}); !got.Eq(want) {
			t.Errorf("Normalize = %v; want %v", got, want)
		}
		if !floatEquals(got.Len(), 1.0) {
			t.Errorf("Normalize length = %v; want 1", got.Len())
		}
	})

	t.Run("NormalizeZero", func(t *testing.T) {
		got := Zero.Normalize()
		if math.IsNaN(got.X) || math.IsNaN(got.Y) || !got.IsZero() {
			t.Errorf("Normalize(0,0) = %v; want (0,0)", got)
		}
	})
}

func TestVector_ClampLen(t *testing.T) {
	tests := []struct {
		name string
		v    Vector2D
		max  float64
		want Vector2D
	}{
		{"Under limit unchanged", Vector2D{0.3, 0.4}, 1, Vector2D{0.3, 0.4}},
		{"Exactly at limit unchanged", Vector2D{3, 4}, 5, Vector2D{3, 4}},
		{"Over limit scaled down", Vector2D{3, 4}, 1, Vector2D{0.6, 0.8}},
		{"Zero stays zero", Vector2D{0, 0}, 0.5, Vector2D{0, 0}},
		{"Zero limit", Vector2D{3, 4}, 0, Vector2D{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.ClampLen(tt.max)
			if !got.Eq(tt.want) {
				t.Errorf("%v.ClampLen(%v) = %v; want %v", tt.v, tt.max, got, tt.want)
			}
			if got.Len() > tt.max+Epsilon {
				t.Errorf("ClampLen result %v longer than %v", got, tt.max)
			}
		})
	}
}

func TestVector_Distance(t *testing.T) {
	v1 := Vector2D{1, 1}
	v2 := Vector2D{4, 5} // dx=3, dy=4, dist=5

	if got := v1.DistanceSquaredTo(v2); got != 25 {
		t.Errorf("DistanceSquaredTo = %v; want 25", got)
	}
}

func TestVector_Angle(t *testing.T) {
	tests := []struct {
		v    Vector2D
		want float64
	}{
		{Vector2D{1, 0}, 0},
		{Vector2D{0, 1}, math.Pi / 2},
		{Vector2D{-1, 0}, math.Pi}, // math.Atan2 returns Pi for (-1, 0)
		{Vector2D{0, -1}, -math.Pi / 2},
	}
	for _, tt := range tests {
		if got := tt.v.Angle(); !floatEquals(got, tt.want) {
			t.Errorf("%v.Angle() = %v; want %v", tt.v, got, tt.want)
		}
	}
}

func TestVector_Rotate(t *testing.T) {
	got := Vector2D{1, 0}.Rotate(math.Pi / 2)
	if want := (Vector2D{0, 1}); !got.Eq(want) {
		t.Errorf("Rotate(90) = %v; want %v", got, want)
	}
}

func TestCentroid(t *testing.T) {
	if got := Centroid(nil); !got.IsZero() {
		t.Errorf("Centroid(nil) = %v; want (0,0)", got)
	}
	got := Centroid([]Vector2D{{0, 0}, {2, 0}, {1, 3}})
	if want := (Vector2D{1, 1}); !got.Eq(want) {
		t.Errorf("Centroid = %v; want %v", got, want)
	}
}

func TestVector_Eq(t *testing.T) {
	v := Vector2D{1, 2}

	if !v.Eq(Vector2D{1, 2}) {
		t.Error("Eq exact match failed")
	}

	vClose := Vector2D{1 + Epsilon/2, 2 - Epsilon/2}
	if !v.Eq(vClose) {
		t.Error("Eq epsilon match failed")
	}

	if v.Eq(Vector2D{1.1, 2}) {
		t.Error("Eq mismatch failed")
	}
}
