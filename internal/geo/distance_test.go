package geo

import (
	"math"
	"testing"
)

// metersPerDegreeLat is the length of one degree of latitude on the sphere
const metersPerDegreeLat = EarthRadiusMeters * math.Pi / 180

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][4]float64{
		{52.5200, 13.4050, 48.8566, 2.3522},
		{-33.8688, 151.2093, 40.7128, -74.0060},
		{0, 0, 0, 179.9},
		{89.9, 10, -89.9, -170},
	}
	for _, p := range pairs {
		ab := DistanceMeters(p[0], p[1], p[2], p[3])
		ba := DistanceMeters(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-6 {
			t.Fatalf("distance not symmetric for %v: %f vs %f", p, ab, ba)
		}
		if ab < 0 {
			t.Fatalf("negative distance %f for %v", ab, p)
		}
	}
}

func TestDistanceToSelfIsZero(t *testing.T) {
	if d := DistanceMeters(37.7749, -122.4194, 37.7749, -122.4194); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestDistanceOneDegreeLatitude(t *testing.T) {
	d := DistanceMeters(10, 20, 11, 20)
	if math.Abs(d-metersPerDegreeLat) > 0.01 {
		t.Fatalf("expected %f, got %f", metersPerDegreeLat, d)
	}
}

func TestDistanceAntipodal(t *testing.T) {
	half := math.Pi * EarthRadiusMeters
	pairs := [][4]float64{
		{10, 0, -10, 180},
		{0, 0, 0, 180},
		{33.3, 12.7, -33.3, -167.3},
		{90, 0, -90, 0},
	}
	for _, p := range pairs {
		d := DistanceMeters(p[0], p[1], p[2], p[3])
		if math.IsNaN(d) || math.Abs(d-half) > 1 {
			t.Fatalf("expected half circumference %f for %v, got %f", half, p, d)
		}
	}
}

func TestDistanceNaNOnlyForNonFinite(t *testing.T) {
	if d := DistanceMeters(math.NaN(), 0, 0, 0); !math.IsNaN(d) {
		t.Fatalf("expected NaN for NaN input, got %f", d)
	}
}

func TestDistanceBerlinParis(t *testing.T) {
	d := DistanceMeters(52.5200, 13.4050, 48.8566, 2.3522)
	if d < 875000 || d > 880000 {
		t.Fatalf("Berlin to Paris should be about 877km, got %f", d)
	}
}

func TestValidCoordinate(t *testing.T) {
	cases := []struct {
		lat, lon float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.1, 0, false},
		{0, -180.5, false},
		{math.NaN(), 0, false},
		{0, math.Inf(1), false},
	}
	for _, c := range cases {
		if got := ValidCoordinate(c.lat, c.lon); got != c.want {
			t.Fatalf("ValidCoordinate(%v, %v) = %v, want %v", c.lat, c.lon, got, c.want)
		}
	}
}

func north(name string, meters float64) Point {
	return Point{Name: name, Latitude: meters / metersPerDegreeLat, Longitude: 0}
}

func TestNearestWithinRange(t *testing.T) {
	origin := Point{Name: "imp"}
	candidates := []Point{north("far", 20), north("close", 3), north("mid", 6)}

	m, ok := Nearest(origin, candidates, 7)
	if !ok {
		t.Fatalf("expected a match")
	}
	if m.Name != "close" {
		t.Fatalf("expected close, got %s", m.Name)
	}
	if math.Abs(m.Meters-3) > 0.01 {
		t.Fatalf("expected about 3m, got %f", m.Meters)
	}

	if _, ok := Nearest(origin, []Point{north("far", 20)}, 7); ok {
		t.Fatalf("expected no match outside range")
	}
}

func TestNearestTieBrokenByName(t *testing.T) {
	origin := Point{Name: "imp"}
	south := Point{Name: "alice", Latitude: -2 / metersPerDegreeLat}
	candidates := []Point{north("zed", 2), south, north("bob", 2)}

	m, ok := Nearest(origin, candidates, 7)
	if !ok || m.Name != "alice" {
		t.Fatalf("expected alice on equal distance, got %+v", m)
	}
}

func TestWithinOrdersByDistance(t *testing.T) {
	matches := Within(Point{}, []Point{north("c", 5), north("a", 1), north("b", 3), north("x", 50)}, 10)
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	for i, want := range []string{"a", "b", "c"} {
		if matches[i].Name != want {
			t.Fatalf("match %d: expected %s, got %s", i, want, matches[i].Name)
		}
	}
}
