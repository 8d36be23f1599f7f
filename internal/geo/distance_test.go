package geo

import (
	"math"
	"testing"
)

func TestDistanceKmZeroForSamePoint(t *testing.T) {
	if d := DistanceKm(40.7128, -74.0060, 40.7128, -74.0060); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestDistanceKmOneDegreeOfLongitudeAtEquator(t *testing.T) {
	d := DistanceKm(0, 0, 0, 1)
	if math.Abs(d-111.19) > 0.01 {
		t.Fatalf("expected ~111.19 km, got %f", d)
	}
}

func TestDistanceKmEquatorToPole(t *testing.T) {
	d := DistanceKm(0, 0, 90, 0)
	if math.Abs(d-10007.54) > 0.01 {
		t.Fatalf("expected ~10007.54 km, got %f", d)
	}
}

func TestDistanceKmSymmetry(t *testing.T) {
	a := DistanceKm(23.8103, 90.4125, 22.3569, 91.7832)
	b := DistanceKm(22.3569, 91.7832, 23.8103, 90.4125)
	if math.Abs(a-b) > 1e-6 {
		t.Fatalf("distance not symmetric: %f vs %f", a, b)
	}
}

func TestDistanceKmPropagatesNaN(t *testing.T) {
	if d := DistanceKm(math.NaN(), 0, 0, 0); !math.IsNaN(d) {
		t.Fatalf("expected NaN, got %f", d)
	}
}
