package celestial

import (
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    BodyKind
		wantErr bool
	}{
		{"STAR", Star, false},
		{"GIANT", Giant, false},
		{"TERRESTRIAL", Terrestrial, false},
		{"COMET", 0, true},
		{"star", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTrojanPairDesignation(t *testing.T) {
	tests := []struct {
		name          string
		bodies        []Body
		wantTrojan    int
		wantCompanion int
		wantOK        bool
		wantExtras    int
	}{
		{
			name: "trojan after giant",
			bodies: []Body{
				{Kind: Star, Mass: 1},
				{Kind: Giant, Mass: 1e-3},
				{Kind: Terrestrial, Trojan: true},
			},
			wantTrojan:    2,
			wantCompanion: 1,
			wantOK:        true,
		},
		{
			name: "giant preferred over nearer star",
			bodies: []Body{
				{Kind: Giant, Mass: 1e-3},
				{Kind: Star, Mass: 1},
				{Kind: Terrestrial, Trojan: true},
			},
			wantTrojan:    2,
			wantCompanion: 0,
			wantOK:        true,
		},
		{
			name: "star fallback",
			bodies: []Body{
				{Kind: Star, Mass: 1},
				{Kind: Terrestrial, Trojan: true},
			},
			wantTrojan:    1,
			wantCompanion: 0,
			wantOK:        true,
		},
		{
			name: "no preceding companion",
			bodies: []Body{
				{Kind: Terrestrial, Trojan: true},
				{Kind: Star, Mass: 1},
			},
			wantOK: false,
		},
		{
			name: "no trojan",
			bodies: []Body{
				{Kind: Star, Mass: 1},
				{Kind: Giant, Mass: 1e-3},
			},
			wantOK: false,
		},
		{
			name: "extra trojans inert",
			bodies: []Body{
				{Kind: Star, Mass: 1},
				{Kind: Giant, Mass: 1e-3},
				{Kind: Terrestrial, Trojan: true},
				{Kind: Terrestrial, Trojan: true},
				{Kind: Terrestrial, Trojan: true},
			},
			wantTrojan:    2,
			wantCompanion: 1,
			wantOK:        true,
			wantExtras:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := NewSystem(tt.bodies)
			trojan, companion, ok := sys.TrojanPair()
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if !ok {
				return
			}
			if trojan != tt.wantTrojan {
				t.Errorf("expected trojan index %d, got %d", tt.wantTrojan, trojan)
			}
			if companion != tt.wantCompanion {
				t.Errorf("expected companion index %d, got %d", tt.wantCompanion, companion)
			}
			if got := len(sys.ExtraTrojans()); got != tt.wantExtras {
				t.Errorf("expected %d extra trojans, got %d", tt.wantExtras, got)
			}
		})
	}
}

func TestPrimaryPoint(t *testing.T) {
	tests := []struct {
		name   string
		bodies []Body
		want   Vector3
	}{
		{
			name: "single star",
			bodies: []Body{
				{Kind: Star, Mass: 2, Position: Vector3{X: 5}},
				{Kind: Giant, Mass: 1, Position: Vector3{X: -7}},
			},
			want: Vector3{X: 5},
		},
		{
			name: "binary stars weighted",
			bodies: []Body{
				{Kind: Star, Mass: 3, Position: Vector3{X: 0}},
				{Kind: Star, Mass: 1, Position: Vector3{X: 4}},
			},
			want: Vector3{X: 1},
		},
		{
			name: "no star falls back to barycenter",
			bodies: []Body{
				{Kind: Giant, Mass: 1, Position: Vector3{X: 2}},
				{Kind: Giant, Mass: 1, Position: Vector3{X: 6}},
			},
			want: Vector3{X: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewSystem(tt.bodies).PrimaryPoint()
			if got.Sub(tt.want).Magnitude() > 1e-12 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPrimaryBody(t *testing.T) {
	t.Run("single star keeps identity", func(t *testing.T) {
		sys := NewSystem([]Body{
			{Kind: Star, Name: "Sol", Mass: 2, Velocity: Vector3{Y: 1}},
			{Kind: Giant, Mass: 1, Position: Vector3{X: 3}},
		})
		p := sys.PrimaryBody()
		if p.Name != "Sol" || p.Mass != 2 {
			t.Errorf("expected the star itself, got %+v", p)
		}
	})

	t.Run("binary stars aggregate mass and momentum", func(t *testing.T) {
		sys := NewSystem([]Body{
			{Kind: Star, Mass: 3, Velocity: Vector3{X: 1}},
			{Kind: Star, Mass: 1, Position: Vector3{X: 4}, Velocity: Vector3{X: -3}},
		})
		p := sys.PrimaryBody()
		if p.Mass != 4 {
			t.Errorf("expected combined mass 4, got %v", p.Mass)
		}
		if !almostEqual(p.Position.X, 1, 1e-12) {
			t.Errorf("expected barycenter x=1, got %v", p.Position.X)
		}
		// (3*1 + 1*-3)/4 = 0
		if !almostEqual(p.Velocity.X, 0, 1e-12) {
			t.Errorf("expected zero mean velocity, got %v", p.Velocity.X)
		}
	})

	t.Run("starless system uses full barycenter", func(t *testing.T) {
		sys := NewSystem([]Body{
			{Kind: Giant, Mass: 1, Position: Vector3{X: 2}},
			{Kind: Giant, Mass: 1, Position: Vector3{X: 6}},
		})
		p := sys.PrimaryBody()
		if p.Mass != 2 || !almostEqual(p.Position.X, 4, 1e-12) {
			t.Errorf("expected mass 2 at x=4, got %+v", p)
		}
	})
}

func TestSystemTotals(t *testing.T) {
	sys := NewSystem([]Body{
		{Mass: 2, Position: Vector3{X: 1}, Velocity: Vector3{Y: 3}},
		{Mass: 1, Position: Vector3{X: -2}, Velocity: Vector3{Y: -6}},
	})

	if got := sys.TotalMass(); got != 3 {
		t.Errorf("expected total mass 3, got %v", got)
	}

	p := sys.Momentum()
	if p.Magnitude() > 1e-12 {
		t.Errorf("expected zero net momentum, got %v", p)
	}

	l := sys.AngularMomentum()
	// 2*(1*3) + 1*(-2*-6) = 18 about z
	if !almostEqual(l.Z, 18, 1e-12) {
		t.Errorf("expected Lz=18, got %v", l.Z)
	}

	bc := sys.Barycenter()
	if bc.Sub(Vector3{X: 0}).Magnitude() > 1e-12 {
		t.Errorf("expected barycenter at origin, got %v", bc)
	}
}

func TestTotalEnergyTwoBody(t *testing.T) {
	const g = 1.0
	sys := NewSystem([]Body{
		{Mass: 1, Position: Vector3{}, Velocity: Vector3{}},
		{Mass: 1, Position: Vector3{X: 2}, Velocity: Vector3{Y: 0.5}},
	})

	// kinetic 0.5*1*0.25, potential -1*1*1/2
	want := 0.125 - 0.5
	if got := sys.TotalEnergy(g); !almostEqual(got, want, 1e-12) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSystemClone(t *testing.T) {
	sys := NewSystem([]Body{
		{Kind: Star, Mass: 1},
		{Kind: Giant, Mass: 1e-3},
		{Kind: Terrestrial, Trojan: true},
	})

	clone := sys.Clone()
	clone.Bodies[0].Mass = 99

	if sys.Bodies[0].Mass != 1 {
		t.Error("clone mutation leaked into original")
	}

	ct, cc, ok := clone.TrojanPair()
	if !ok || ct != 2 || cc != 1 {
		t.Errorf("expected pair (2,1) in clone, got (%d,%d,%v)", ct, cc, ok)
	}
}
