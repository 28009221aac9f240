package core

import (
	"math"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestSignedAngle(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vec3
		expected float64
	}{
		{"same direction", V3(1, 0, 0), V3(2, 0, 0), 0},
		{"quarter turn positive", V3(1, 0, 0), V3(0, 0, -1), math.Pi / 2},
		{"quarter turn negative", V3(1, 0, 0), V3(0, 0, 1), -math.Pi / 2},
		{"opposite", V3(0, 0, 1), V3(0, 0, -1), -math.Pi},
		{"zero first", V3(0, 0, 0), V3(1, 0, 0), 0},
		{"zero second", V3(1, 0, 0), V3(0, 0, 0), 0},
		{"plus z to plus x", V3(0, 0, 1), V3(1, 0, 0), math.Pi / 2},
		{"plus z to minus x", V3(0, 0, 1), V3(-1, 0, 0), -math.Pi / 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SignedAngle(tc.a, tc.b)
			if math.IsNaN(got) {
				t.Fatalf("SignedAngle() = NaN")
			}
			if !approx(got, tc.expected) {
				t.Errorf("SignedAngle() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestAngleAt(t *testing.T) {
	vertex := V3(10, 0, 10)
	got := AngleAt(vertex, V3(11, 0, 10), V3(10, 0, 9))
	if !approx(got, math.Pi/2) {
		t.Errorf("AngleAt() = %v, expected %v", got, math.Pi/2)
	}
	if AngleAt(vertex, vertex, V3(0, 0, 0)) != 0 {
		t.Error("AngleAt() with a degenerate arm should be 0")
	}
}

func TestRotateYMatchesForward(t *testing.T) {
	for _, deg := range []float64{0, 30, 90, 180, -45} {
		h := Rad(deg)
		got := V3(1, 0, 0).RotateY(h)
		want := V3(math.Cos(h), 0, -math.Sin(h))
		if !approx(got.X, want.X) || !approx(got.Z, want.Z) {
			t.Errorf("RotateY(%v) = %+v, expected %+v", deg, got, want)
		}
		// rotating forward by a positive angle must read back as a positive signed angle
		if deg > 0 && deg < 180 {
			if a := SignedAngle(V3(1, 0, 0), got); !approx(a, h) {
				t.Errorf("SignedAngle after RotateY(%v) = %v, expected %v", deg, a, h)
			}
		}
	}
}

func TestReflect(t *testing.T) {
	tests := []struct {
		name     string
		d, n     Vec3
		expected Vec3
	}{
		{"head on", V3(1, 0, 0), V3(-1, 0, 0), V3(-1, 0, 0)},
		{"normal sign does not matter", V3(1, 0, 0), V3(1, 0, 0), V3(-1, 0, 0)},
		{"glancing", V3(1, 0, 1), V3(0, 0, -1), V3(1, 0, -1)},
		{"parallel to face", V3(0, 0, 1), V3(1, 0, 0), V3(0, 0, 1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.d.Reflect(tc.n)
			if got.Sub(tc.expected).Len() > eps {
				t.Errorf("Reflect() = %+v, expected %+v", got, tc.expected)
			}
		})
	}
}

func TestBox3Intersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Box3
		expected bool
	}{
		{"overlapping", BoxAround(V3(0, 0, 0), 2), BoxAround(V3(3, 0, 0), 2), true},
		{"touching faces", BoxAround(V3(0, 0, 0), 2), BoxAround(V3(4, 0, 0), 2), true},
		{"separated by gap", BoxAround(V3(0, 0, 0), 2), BoxAround(V3(4.01, 0, 0), 2), false},
		{"separated vertically", BoxAround(V3(0, 0, 0), 1), BoxAround(V3(0, 5, 0), 1), false},
		{"contained", BoxAround(V3(0, 0, 0), 5), BoxAround(V3(1, 1, 1), 0.3), true},
		{"empty never intersects", Box3{}, BoxAround(V3(0, 0, 0), 10), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() reversed = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestNormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("Normalize() of zero = %+v, expected zero vector", got)
	}
	if got := V3(3, 0, 4).Normalize().Len(); !approx(got, 1) {
		t.Errorf("Normalize().Len() = %v, expected 1", got)
	}
}

func TestClamp(t *testing.T) {
	if got := ClampF(12, 0, 10); got != 10 {
		t.Errorf("ClampF() = %v, expected 10", got)
	}
	if got := Clamp(-3, 0, 10); got != 0 {
		t.Errorf("Clamp() = %v, expected 0", got)
	}
}
