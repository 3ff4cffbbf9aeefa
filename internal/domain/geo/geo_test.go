package geo

import (
	"math"
	"testing"
)

func TestDistanceKm(t *testing.T) {
	// Connaught Place to India Gate, roughly 2.5 km.
	cp := Point{Lat: 28.6315, Lng: 77.2167}
	ig := Point{Lat: 28.6129, Lng: 77.2295}

	d, ok := DistanceKm(&cp, &ig)
	if !ok {
		t.Fatal("expected a known distance")
	}
	if d < 2.0 || d > 3.0 {
		t.Errorf("distance = %.2f km, want roughly 2.5", d)
	}
}

func TestDistanceKm_SamePoint(t *testing.T) {
	p := Point{Lat: 19.0760, Lng: 72.8777}
	d, ok := DistanceKm(&p, &p)
	if !ok || d != 0 {
		t.Errorf("DistanceKm(p, p) = %.2f, %v; want 0, true", d, ok)
	}
}

func TestDistanceKm_Rounded(t *testing.T) {
	a := Point{Lat: 12.9716, Lng: 77.5946}
	b := Point{Lat: 13.0827, Lng: 80.2707}
	d, ok := DistanceKm(&a, &b)
	if !ok {
		t.Fatal("expected a known distance")
	}
	if d != math.Round(d*100)/100 {
		t.Errorf("distance %.6f not rounded to 2 decimals", d)
	}
}

func TestDistanceKm_Unknown(t *testing.T) {
	valid := Point{Lat: 0, Lng: 0}
	tests := []struct {
		name string
		a, b *Point
	}{
		{"nil a", nil, &valid},
		{"nil b", &valid, nil},
		{"lat out of range", &Point{Lat: 91, Lng: 0}, &valid},
		{"lng out of range", &valid, &Point{Lat: 0, Lng: 181}},
		{"nan", &Point{Lat: math.NaN(), Lng: 0}, &valid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := DistanceKm(tt.a, tt.b); ok {
				t.Error("expected distance to be unknown")
			}
		})
	}
}

func TestPoint_Valid(t *testing.T) {
	if !(Point{Lat: -90, Lng: 180}).Valid() {
		t.Error("boundary coordinates should be valid")
	}
	if (Point{Lat: 0, Lng: math.Inf(1)}).Valid() {
		t.Error("infinite longitude should be invalid")
	}
}
