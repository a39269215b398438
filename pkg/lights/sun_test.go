package lights

import (
	"math"
	"testing"

	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
)

func TestSunLight_DirectionFromHorizonAngles(t *testing.T) {
	cases := []struct {
		name                 string
		elevation, azimuth   float64
		want                 core.Vec3
	}{
		{"horizon north", 0, 0, core.NewVec3(0, 0, 1)},
		{"zenith", math.Pi / 2, 0, core.NewVec3(0, 1, 0)},
		{"horizon east", 0, math.Pi / 2, core.NewVec3(1, 0, 0)},
	}
	for _, tc := range cases {
		sun := NewSunLight(tc.elevation, tc.azimuth, 0.005, core.NewVec3(1, 1, 1), 1)
		if sun.Direction().Subtract(tc.want).Length() > 1e-12 {
			t.Errorf("%s: direction %v, want %v", tc.name, sun.Direction(), tc.want)
		}
	}
}

func TestSunLight_SamplesWithinCone(t *testing.T) {
	angularRadius := 0.02
	sun := NewSunLight(0.8, 1.2, angularRadius, core.NewVec3(1, 0.9, 0.8), 50)
	s := core.NewPCGSampler(5, 5)
	cosAngle := math.Cos(angularRadius)

	for i := 0; i < 500; i++ {
		ls := sun.Sample(core.NewVec3(0, 0, 0), s.Get2D())
		if math.Abs(ls.Direction.Length()-1) > 1e-9 {
			t.Fatalf("sample direction not unit length: %f", ls.Direction.Length())
		}
		if ls.Direction.Dot(sun.Direction()) < cosAngle-1e-12 {
			t.Fatalf("sample outside the disc cone: %v", ls.Direction)
		}
		if !math.IsInf(ls.Distance, 1) {
			t.Fatalf("distant light distance = %f", ls.Distance)
		}
		wantPDF := 1 / core.ConeSolidAngle(cosAngle)
		if math.Abs(ls.PDF-wantPDF) > 1e-9*wantPDF {
			t.Fatalf("sample pdf %f, want %f", ls.PDF, wantPDF)
		}
	}
}

func TestSunLight_PDFGatedByCone(t *testing.T) {
	sun := NewSunLight(math.Pi/4, 0, 0.05, core.NewVec3(1, 1, 1), 1)
	p := core.NewVec3(0, 0, 0)

	inside := sun.PDF(p, sun.Direction())
	if inside <= 0 {
		t.Error("pdf is zero at the disc center")
	}
	if got := sun.PDF(p, core.NewVec3(0, 0, -1)); got != 0 {
		t.Errorf("pdf %f for a direction away from the disc, want 0", got)
	}
}

func TestSunLight_EmitGatedByCone(t *testing.T) {
	color := core.NewVec3(1, 0.8, 0.6)
	sun := NewSunLight(0.5, 0.3, 0.01, color, 40)

	want := color.Multiply(40)
	if got := sun.Emit(sun.Direction()); got.Subtract(want).Length() > 1e-12 {
		t.Errorf("disc radiance %v, want %v", got, want)
	}
	if got := sun.Emit(core.NewVec3(0, -1, 0)); got.Length() != 0 {
		t.Errorf("radiance %v off the disc, want black", got)
	}
}

func TestSunLight_DegenerateDiscIsDelta(t *testing.T) {
	sun := NewSunLight(0.3, 0.1, 0, core.NewVec3(1, 1, 1), 10)
	ls := sun.Sample(core.NewVec3(0, 0, 0), core.NewVec2(0.3, 0.7))

	if ls.Direction.Subtract(sun.Direction()).Length() > 1e-12 {
		t.Errorf("delta sun sampled %v, want exact direction", ls.Direction)
	}
	if ls.PDF != 1 {
		t.Errorf("delta sun pdf = %f, want 1", ls.PDF)
	}
	if got := sun.PDF(core.NewVec3(0, 0, 0), sun.Direction()); got != 0 {
		t.Errorf("delta sun solid-angle pdf = %f, want 0", got)
	}
}
