package domain

import (
	"math"
	"testing"
)

func TestDistanceMeters_Identity(t *testing.T) {
	coords := []Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: 33.3617, Lng: 126.5292},
		{Lat: -45.5, Lng: 170.2},
	}
	for _, c := range coords {
		if d := DistanceMeters(c, c); d != 0 {
			t.Fatalf("expected zero distance for identical coordinates, got %f", d)
		}
	}
}

func TestDistanceMeters_Symmetry(t *testing.T) {
	a := Coordinate{Lat: 33.3617, Lng: 126.5292}
	b := Coordinate{Lat: 33.4584, Lng: 126.9423}

	if ab, ba := DistanceMeters(a, b), DistanceMeters(b, a); ab != ba {
		t.Fatalf("expected symmetric distance, got %f and %f", ab, ba)
	}
}

func TestDistanceMeters_HallasanToSeongsan(t *testing.T) {
	hallasan := Coordinate{Lat: 33.3617, Lng: 126.5292}
	seongsan := Coordinate{Lat: 33.4584, Lng: 126.9423}

	got := DistanceMeters(hallasan, seongsan)
	// Reference haversine distance, 1% tolerance.
	const want = 39820.0
	if math.Abs(got-want)/want > 0.01 {
		t.Fatalf("expected ~%0.fm, got %.0fm", want, got)
	}
}

func TestWithinRadius(t *testing.T) {
	target := Coordinate{Lat: 33.3617, Lng: 126.5292}

	if !WithinRadius(target, target, 1000) {
		t.Fatal("identical coordinates must be inside any radius")
	}

	// 0.0043 degrees of latitude is roughly 480 metres.
	near := Coordinate{Lat: 33.3660, Lng: 126.5292}
	if !WithinRadius(near, target, 1000) {
		t.Fatal("expected ~480m offset to be inside a 1000m radius")
	}

	far := Coordinate{Lat: 33.4584, Lng: 126.9423}
	if WithinRadius(far, target, 1000) {
		t.Fatal("expected ~40km offset to be outside a 1000m radius")
	}
}
