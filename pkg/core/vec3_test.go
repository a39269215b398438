package core

import (
	"math"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)

	if got := a.Add(b); got != NewVec3(5, 7, 9) {
		t.Errorf("Add = %v", got)
	}
	if got := b.Subtract(a); got != NewVec3(3, 3, 3) {
		t.Errorf("Subtract = %v", got)
	}
	if got := a.Multiply(2); got != NewVec3(2, 4, 6) {
		t.Errorf("Multiply = %v", got)
	}
	if got := a.MultiplyVec(b); got != NewVec3(4, 10, 18) {
		t.Errorf("MultiplyVec = %v", got)
	}
	if got := a.Negate(); got != NewVec3(-1, -2, -3) {
		t.Errorf("Negate = %v", got)
	}
}

func TestVec3_DotAndCross(t *testing.T) {
	a := NewVec3(1, 0, 0)
	b := NewVec3(0, 1, 0)

	if got := a.Dot(b); got != 0 {
		t.Errorf("orthogonal dot = %f", got)
	}
	if got := a.Cross(b); got != NewVec3(0, 0, 1) {
		t.Errorf("x cross y = %v, want z", got)
	}
	if got := b.Cross(a); got != NewVec3(0, 0, -1) {
		t.Errorf("y cross x = %v, want -z", got)
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(3, 4, 0).Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("normalized length = %f", v.Length())
	}
	if v.Subtract(NewVec3(0.6, 0.8, 0)).Length() > 1e-12 {
		t.Errorf("normalized = %v", v)
	}

	// Zero vector stays zero instead of producing NaN
	if got := (Vec3{}).Normalize(); got.HasNaN() {
		t.Errorf("zero normalize = %v", got)
	}
}

func TestVec3_Reflect(t *testing.T) {
	v := NewVec3(1, -1, 0)
	n := NewVec3(0, 1, 0)
	if got := v.Reflect(n); got != NewVec3(1, 1, 0) {
		t.Errorf("reflect = %v, want (1, 1, 0)", got)
	}
}

func TestVec3_ClampLerpPow(t *testing.T) {
	v := NewVec3(-0.5, 0.5, 1.5)
	if got := v.Clamp(0, 1); got != NewVec3(0, 0.5, 1) {
		t.Errorf("Clamp = %v", got)
	}

	a := NewVec3(0, 0, 0)
	b := NewVec3(2, 4, 8)
	if got := a.Lerp(b, 0.5); got != NewVec3(1, 2, 4) {
		t.Errorf("Lerp = %v", got)
	}
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp at 0 = %v", got)
	}

	if got := NewVec3(4, 9, 16).Pow(0.5); got.Subtract(NewVec3(2, 3, 4)).Length() > 1e-12 {
		t.Errorf("Pow = %v", got)
	}
}

func TestVec3_LuminanceAndMaxComponent(t *testing.T) {
	white := NewVec3(1, 1, 1)
	if math.Abs(white.Luminance()-1) > 1e-9 {
		t.Errorf("white luminance = %f, want 1", white.Luminance())
	}
	// Green dominates the luminance weighting
	if NewVec3(0, 1, 0).Luminance() <= NewVec3(1, 0, 0).Luminance() {
		t.Error("green should carry more luminance than red")
	}
	if got := NewVec3(0.1, 0.7, 0.3).MaxComponent(); got != 0.7 {
		t.Errorf("MaxComponent = %f", got)
	}
}

func TestVec3_Predicates(t *testing.T) {
	if !(Vec3{}).IsZero() {
		t.Error("zero vector not detected")
	}
	if NewVec3(0, 1e-30, 0).IsZero() {
		t.Error("tiny nonzero vector flagged as zero")
	}
	if !NewVec3(math.NaN(), 0, 0).HasNaN() {
		t.Error("NaN not detected")
	}
	if NewVec3(1, 2, 3).HasNaN() {
		t.Error("finite vector flagged as NaN")
	}
}

func TestVec3_GammaCorrect(t *testing.T) {
	v := NewVec3(0.25, 1, 0).GammaCorrect(2.0)
	if math.Abs(v.X-0.5) > 1e-12 {
		t.Errorf("gamma 2 of 0.25 = %f, want 0.5", v.X)
	}
	if v.Y != 1 || v.Z != 0 {
		t.Errorf("gamma endpoints moved: %v", v)
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 0, 0), NewVec3(0, 2, 0))
	if got := ray.At(1.5); got != NewVec3(1, 3, 0) {
		t.Errorf("At(1.5) = %v", got)
	}
	if got := ray.At(0); got != ray.Origin {
		t.Errorf("At(0) = %v, want origin", got)
	}
}
