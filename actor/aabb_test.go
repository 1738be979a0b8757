package actor

import (
	"math/rand/v2"
	"testing"

	"github.com/akmonengine/verlet/vmath"
	"github.com/go-gl/mathgl/mgl64"
)

// =============================================================================
// AABB Utility Function Tests
// =============================================================================

func TestAABBOverlaps_Separated(t *testing.T) {
	tests := []struct {
		name  string
		aabb1 AABB
		aabb2 AABB
	}{
		{
			name:  "Separated on X axis (positive)",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{2, 0, 0}, Max: mgl64.Vec3{3, 1, 1}},
		},
		{
			name:  "Separated on X axis (negative)",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{-2, 0, 0}, Max: mgl64.Vec3{-1, 1, 1}},
		},
		{
			name:  "Separated on Y axis (positive)",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{0, 2, 0}, Max: mgl64.Vec3{1, 3, 1}},
		},
		{
			name:  "Separated on Y axis (negative)",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{0, -2, 0}, Max: mgl64.Vec3{1, -1, 1}},
		},
		{
			name:  "Separated on Z axis (positive)",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{0, 0, 2}, Max: mgl64.Vec3{1, 1, 3}},
		},
		{
			name:  "Separated on Z axis (negative)",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{0, 0, -2}, Max: mgl64.Vec3{1, 1, -1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.aabb1.Overlaps(tt.aabb2) {
				t.Errorf("AABBs should not overlap")
			}
			// Test symmetry
			if tt.aabb2.Overlaps(tt.aabb1) {
				t.Errorf("AABBs should not overlap (symmetry test)")
			}
		})
	}
}

func TestAABBOverlaps_Overlapping(t *testing.T) {
	tests := []struct {
		name  string
		aabb1 AABB
		aabb2 AABB
	}{
		{
			name:  "Complete overlap (identical)",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
		},
		{
			name:  "Partial overlap on X axis",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{2, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{1, 0, 0}, Max: mgl64.Vec3{3, 1, 1}},
		},
		{
			name:  "Partial overlap on Y axis",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 2, 1}},
			aabb2: AABB{Min: mgl64.Vec3{0, 1, 0}, Max: mgl64.Vec3{1, 3, 1}},
		},
		{
			name:  "Partial overlap on Z axis",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 2}},
			aabb2: AABB{Min: mgl64.Vec3{0, 0, 1}, Max: mgl64.Vec3{1, 1, 3}},
		},
		{
			name:  "Complete containment (aabb2 inside aabb1)",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{10, 10, 10}},
			aabb2: AABB{Min: mgl64.Vec3{2, 2, 2}, Max: mgl64.Vec3{3, 3, 3}},
		},
		{
			name:  "Partial overlap on all axes",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{2, 2, 2}},
			aabb2: AABB{Min: mgl64.Vec3{1, 1, 1}, Max: mgl64.Vec3{3, 3, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.aabb1.Overlaps(tt.aabb2) {
				t.Errorf("AABBs should overlap")
			}
			// Test symmetry
			if !tt.aabb2.Overlaps(tt.aabb1) {
				t.Errorf("AABBs should overlap (symmetry test)")
			}
		})
	}
}

func TestAABBOverlaps_EdgeTouching(t *testing.T) {
	tests := []struct {
		name          string
		aabb1         AABB
		aabb2         AABB
		shouldOverlap bool
	}{
		{
			name:          "Edge touching on X axis",
			aabb1:         AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2:         AABB{Min: mgl64.Vec3{1, 0, 0}, Max: mgl64.Vec3{2, 1, 1}},
			shouldOverlap: true, // Touching edges should be considered overlapping
		},
		{
			name:          "Edge touching on Y axis",
			aabb1:         AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2:         AABB{Min: mgl64.Vec3{0, 1, 0}, Max: mgl64.Vec3{1, 2, 1}},
			shouldOverlap: true,
		},
		{
			name:          "Edge touching on Z axis",
			aabb1:         AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2:         AABB{Min: mgl64.Vec3{0, 0, 1}, Max: mgl64.Vec3{1, 1, 2}},
			shouldOverlap: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.aabb1.Overlaps(tt.aabb2)
			if result != tt.shouldOverlap {
				t.Errorf("Expected overlap=%v, got %v", tt.shouldOverlap, result)
			}
		})
	}
}

func TestAABBContainsPoint(t *testing.T) {
	aabb := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{2, 2, 2}}

	tests := []struct {
		name     string
		point    mgl64.Vec3
		expected bool
	}{
		{"Center point", mgl64.Vec3{1, 1, 1}, true},
		{"Min corner", mgl64.Vec3{0, 0, 0}, true},
		{"Max corner", mgl64.Vec3{2, 2, 2}, true},
		{"Outside (X too large)", mgl64.Vec3{3, 1, 1}, false},
		{"Outside (X too small)", mgl64.Vec3{-1, 1, 1}, false},
		{"Outside (Y too large)", mgl64.Vec3{1, 3, 1}, false},
		{"Outside (Y too small)", mgl64.Vec3{1, -1, 1}, false},
		{"Outside (Z too large)", mgl64.Vec3{1, 1, 3}, false},
		{"Outside (Z too small)", mgl64.Vec3{1, 1, -1}, false},
		{"Edge point (X)", mgl64.Vec3{2, 1, 1}, true},
		{"Edge point (Y)", mgl64.Vec3{1, 2, 1}, true},
		{"Edge point (Z)", mgl64.Vec3{1, 1, 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := aabb.ContainsPoint(tt.point)
			if result != tt.expected {
				t.Errorf("ContainsPoint(%v) = %v, expected %v", tt.point, result, tt.expected)
			}
		})
	}
}


// =============================================================================
// Conversions between box forms
// =============================================================================

func TestAABBForms_RoundTrip(t *testing.T) {
	centered := CenteredAABB{Position: mgl64.Vec3{1, -2, 3}, HalfSize: mgl64.Vec3{0.5, 1, 2}}

	minMax := centered.MinMax()
	if minMax.Min != (mgl64.Vec3{0.5, -3, 1}) || minMax.Max != (mgl64.Vec3{1.5, -1, 5}) {
		t.Errorf("MinMax() = %v", minMax)
	}

	topLeft := centered.TopLeft()
	if topLeft.Position != minMax.Min || topLeft.Size != (mgl64.Vec3{1, 2, 4}) {
		t.Errorf("TopLeft() = %v", topLeft)
	}

	if back := topLeft.Centered(); back != centered {
		t.Errorf("TopLeft().Centered() = %v, want %v", back, centered)
	}
	if back := minMax.Centered(); back != centered {
		t.Errorf("MinMax().Centered() = %v, want %v", back, centered)
	}
	if back := minMax.TopLeft().MinMax(); back != minMax {
		t.Errorf("MinMax().TopLeft().MinMax() = %v, want %v", back, minMax)
	}
}

func TestTopLeftAABB_Intersects(t *testing.T) {
	a := TopLeftAABB{Position: mgl64.Vec3{0, 0, 0}, Size: mgl64.Vec3{1, 1, 1}}
	touching := TopLeftAABB{Position: mgl64.Vec3{1, 0, 0}, Size: mgl64.Vec3{1, 1, 1}}
	apart := TopLeftAABB{Position: mgl64.Vec3{1.01, 0, 0}, Size: mgl64.Vec3{1, 1, 1}}

	if !a.Intersects(touching) {
		t.Error("touching top-left boxes should intersect")
	}
	if a.Intersects(apart) {
		t.Error("separated top-left boxes should not intersect")
	}
}

// =============================================================================
// Centered AABB queries
// =============================================================================

func TestCenteredAABB_Intersects(t *testing.T) {
	unit := mgl64.Vec3{0.5, 0.5, 0.5}
	tests := []struct {
		name     string
		a, b     CenteredAABB
		expected bool
	}{
		{"identical", CenteredAABB{mgl64.Vec3{}, unit}, CenteredAABB{mgl64.Vec3{}, unit}, true},
		{"partial overlap", CenteredAABB{mgl64.Vec3{}, unit}, CenteredAABB{mgl64.Vec3{0.5, 0, 0}, unit}, true},
		{"touching faces", CenteredAABB{mgl64.Vec3{}, unit}, CenteredAABB{mgl64.Vec3{0, 1, 0}, unit}, true},
		{"separated on z", CenteredAABB{mgl64.Vec3{}, unit}, CenteredAABB{mgl64.Vec3{0, 0, 1.001}, unit}, false},
		{"point inside", CenteredAABB{mgl64.Vec3{}, unit}, CenteredAABB{mgl64.Vec3{0.2, 0.2, 0.2}, mgl64.Vec3{}}, true},
		{"point on face", CenteredAABB{mgl64.Vec3{}, unit}, CenteredAABB{mgl64.Vec3{0.5, 0, 0}, mgl64.Vec3{}}, true},
		{"point outside", CenteredAABB{mgl64.Vec3{}, unit}, CenteredAABB{mgl64.Vec3{0.6, 0, 0}, mgl64.Vec3{}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.expected {
				t.Errorf("Intersects = %v, want %v", got, tt.expected)
			}
			if got := tt.b.Intersects(tt.a); got != tt.expected {
				t.Errorf("Intersects (symmetry) = %v, want %v", got, tt.expected)
			}
			if got := tt.a.MinMax().Overlaps(tt.b.MinMax()); got != tt.expected {
				t.Errorf("MinMax().Overlaps = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCenteredAABB_ContainsPoint(t *testing.T) {
	box := CenteredAABB{Position: mgl64.Vec3{1, 1, 1}, HalfSize: mgl64.Vec3{1, 1, 1}}
	if !box.ContainsPoint(mgl64.Vec3{2, 2, 2}) {
		t.Error("corner should be contained")
	}
	if box.ContainsPoint(mgl64.Vec3{2.1, 1, 1}) {
		t.Error("outside point should not be contained")
	}
}

func TestCollisionNormalAndPenetration(t *testing.T) {
	unit := mgl64.Vec3{0.5, 0.5, 0.5}
	tests := []struct {
		name        string
		a, b        CenteredAABB
		normal      vmath.Normal
		penetration float64
	}{
		{
			name:        "b to the right",
			a:           CenteredAABB{mgl64.Vec3{0, 0, 0}, unit},
			b:           CenteredAABB{mgl64.Vec3{0.5, 0, 0}, unit},
			normal:      vmath.NormalAlong(vmath.AxisX, vmath.DirectionPositive),
			penetration: 0.5,
		},
		{
			name:        "b to the left",
			a:           CenteredAABB{mgl64.Vec3{0, 0, 0}, unit},
			b:           CenteredAABB{mgl64.Vec3{-0.75, 0, 0}, unit},
			normal:      vmath.NormalAlong(vmath.AxisX, vmath.DirectionNegative),
			penetration: 0.25,
		},
		{
			name:        "a resting on top of b (+y down)",
			a:           CenteredAABB{mgl64.Vec3{0, -0.9, 0}, unit},
			b:           CenteredAABB{mgl64.Vec3{0, 0, 0}, mgl64.Vec3{5, 0.5, 5}},
			normal:      vmath.NormalAlong(vmath.AxisY, vmath.DirectionPositive),
			penetration: 0.1,
		},
		{
			name:        "b in front on z",
			a:           CenteredAABB{mgl64.Vec3{0, 0, 0}, unit},
			b:           CenteredAABB{mgl64.Vec3{0, 0, 0.8}, unit},
			normal:      vmath.NormalAlong(vmath.AxisZ, vmath.DirectionPositive),
			penetration: 0.2,
		},
		{
			name:        "identical boxes tie on +x",
			a:           CenteredAABB{mgl64.Vec3{0, 0, 0}, unit},
			b:           CenteredAABB{mgl64.Vec3{0, 0, 0}, unit},
			normal:      vmath.NormalAlong(vmath.AxisX, vmath.DirectionPositive),
			penetration: 1,
		},
		{
			name:        "x and y tie, x wins",
			a:           CenteredAABB{mgl64.Vec3{0, 0, 0}, unit},
			b:           CenteredAABB{mgl64.Vec3{0.5, 0.5, 0}, unit},
			normal:      vmath.NormalAlong(vmath.AxisX, vmath.DirectionPositive),
			penetration: 0.5,
		},
		{
			name:        "touching reports zero",
			a:           CenteredAABB{mgl64.Vec3{0, 0, 0}, unit},
			b:           CenteredAABB{mgl64.Vec3{0, 1, 0}, unit},
			normal:      vmath.NormalAlong(vmath.AxisY, vmath.DirectionPositive),
			penetration: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normal, penetration := tt.a.CollisionNormalAndPenetration(tt.b)
			if normal != tt.normal {
				t.Errorf("normal = %v, want %v", normal, tt.normal)
			}
			if !mgl64.FloatEqualThreshold(penetration, tt.penetration, 1e-12) {
				t.Errorf("penetration = %v, want %v", penetration, tt.penetration)
			}

			// Moving a out along -normal by the penetration leaves the boxes touching
			moved := tt.a
			moved.Position = moved.Position.Sub(normal.Vec3().Mul(penetration))
			_, after := moved.CollisionNormalAndPenetration(tt.b)
			if after > 1e-9 {
				t.Errorf("penetration after separation = %v, want 0", after)
			}
		})
	}
}

func TestCollisionNormalAndPenetration_NeverNegative(t *testing.T) {
	a := CenteredAABB{Position: mgl64.Vec3{0, 0, 0}, HalfSize: mgl64.Vec3{0.5, 0.5, 0.5}}
	b := CenteredAABB{Position: mgl64.Vec3{3, 0, 0}, HalfSize: mgl64.Vec3{0.5, 0.5, 0.5}}
	if _, penetration := a.CollisionNormalAndPenetration(b); penetration != 0 {
		t.Errorf("separated boxes should clamp penetration to 0, got %v", penetration)
	}
}

func randomBox(rng *rand.Rand) CenteredAABB {
	return CenteredAABB{
		Position: mgl64.Vec3{rng.Float64()*4 - 2, rng.Float64()*4 - 2, rng.Float64()*4 - 2},
		HalfSize: mgl64.Vec3{rng.Float64(), rng.Float64(), rng.Float64()},
	}
}

func TestCenteredAABB_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 10000; i++ {
		a, b := randomBox(rng), randomBox(rng)

		if a.Intersects(b) != b.Intersects(a) {
			t.Fatalf("Intersects is not symmetric for %v and %v", a, b)
		}
		if !a.Intersects(b) {
			continue
		}

		normal, penetration := a.CollisionNormalAndPenetration(b)
		if penetration < 0 {
			t.Fatalf("negative penetration %v for %v and %v", penetration, a, b)
		}
		if normal.IsZero() {
			t.Fatalf("empty normal for %v and %v", a, b)
		}

		reverse, reversePenetration := b.CollisionNormalAndPenetration(a)
		if !mgl64.FloatEqualThreshold(penetration, reversePenetration, 1e-12) {
			t.Fatalf("penetration %v differs from reverse %v", penetration, reversePenetration)
		}
		if reverse.Vec3().Dot(normal.Vec3()) > 0 {
			t.Fatalf("reverse normal %v points the same way as %v", reverse, normal)
		}
	}
}

func TestCollisionAxisWithDirection(t *testing.T) {
	a := CenteredAABB{Position: mgl64.Vec3{0, 0, 0}, HalfSize: mgl64.Vec3{5, 0.5, 5}}
	half := mgl64.Vec3{0.5, 0.5, 0.5}

	tests := []struct {
		name     string
		previous CenteredAABB
		expected vmath.Normal
	}{
		{
			name:     "came from above (negative y)",
			previous: CenteredAABB{mgl64.Vec3{0, -1.2, 0}, half},
			expected: vmath.NormalAlong(vmath.AxisY, vmath.DirectionNegative),
		},
		{
			name:     "came from the +x side",
			previous: CenteredAABB{mgl64.Vec3{6, 0, 0}, half},
			expected: vmath.NormalAlong(vmath.AxisX, vmath.DirectionPositive),
		},
		{
			name:     "came diagonally",
			previous: CenteredAABB{mgl64.Vec3{-6, 2, 0}, half},
			expected: vmath.Normal{vmath.DirectionNegative, vmath.DirectionPositive, vmath.DirectionNone},
		},
		{
			name:     "already overlapping",
			previous: CenteredAABB{mgl64.Vec3{0, 0, 0}, half},
			expected: vmath.Normal{},
		},
		{
			name:     "touching counts as overlapping",
			previous: CenteredAABB{mgl64.Vec3{0, -1, 0}, half},
			expected: vmath.Normal{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.CollisionAxisWithDirection(tt.previous); got != tt.expected {
				t.Errorf("CollisionAxisWithDirection = %v, want %v", got, tt.expected)
			}
		})
	}
}
