package models

import "testing"

func TestValidCategory(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
		want  bool
	}{
		{"biological", CategoryBiological, true},
		{"mineral", CategoryMineral, true},
		{"animal", CategoryAnimal, true},
		{"synthetic", CategorySynthetic, true},
		{"unknown", "vegetal", false},
		{"empty", "", false},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidCategory(tt.value); got != tt.want {
				t.Fatalf("ValidCategory(%q) = %t, want %t", tt.value, got, tt.want)
			}
		})
	}
}

func TestNormalizeRarity(t *testing.T) {
	t.Parallel()

	if got := NormalizeRarity("  rare "); got != RarityRare {
		t.Fatalf("NormalizeRarity returned %q, want %q", got, RarityRare)
	}

	if got := NormalizeRarity("mythic"); got != DefaultRarity {
		t.Fatalf("NormalizeRarity returned %q, want %q", got, DefaultRarity)
	}
}

func TestNormalizeState(t *testing.T) {
	t.Parallel()

	if got := NormalizeState("gas"); got != StateGas {
		t.Fatalf("NormalizeState returned %q, want %q", got, StateGas)
	}

	if got := NormalizeState("plasma"); got != DefaultState {
		t.Fatalf("NormalizeState returned %q, want %q", got, DefaultState)
	}
}

func TestNormalizeIonicType(t *testing.T) {
	t.Parallel()

	if got := NormalizeIonicType("acidic"); got != IonicAcidic {
		t.Fatalf("NormalizeIonicType returned %q, want %q", got, IonicAcidic)
	}

	if got := NormalizeIonicType(""); got != DefaultIonicType {
		t.Fatalf("NormalizeIonicType returned %q, want %q", got, DefaultIonicType)
	}
}

func TestValidSolventType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
		want  bool
	}{
		{"non polar", SolventNonPolar, true},
		{"polar aprotic", SolventPolarAprotic, true},
		{"polar protic", SolventPolarProtic, true},
		{"dashed variant", "non-polar", false},
		{"empty", "", false},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidSolventType(tt.value); got != tt.want {
				t.Fatalf("ValidSolventType(%q) = %t, want %t", tt.value, got, tt.want)
			}
		})
	}
}
