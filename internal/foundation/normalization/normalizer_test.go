package normalization

import "testing"

type color string

const (
	red   color = "red"
	green color = "green"
)

func colors() *EnumNormalizer[color] {
	return NewEnumNormalizer("color", map[string]color{"red": red, "green": green, "Grün": green}, red)
}

func TestNormalize(t *testing.T) {
	n := colors()
	tests := []struct {
		in   string
		want color
	}{
		{"red", red},
		{"  GREEN ", green},
		{"grÜn", green},
		{"blue", red},
	}
	for _, tt := range tests {
		if got := n.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeWithValidation(t *testing.T) {
	n := colors()
	if _, err := n.NormalizeWithValidation("Red"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := n.NormalizeWithValidation("blue")
	if err == nil {
		t.Fatal("expected error for unknown color")
	}
	if got := err.Error(); got != `invalid color: invalid value "blue", valid options: [green grün red]` {
		t.Errorf("error = %s", got)
	}
}

func TestNormalizeWithWarning(t *testing.T) {
	n := colors()
	res := n.NormalizeWithWarning("paint", " RED")
	if !res.Changed || res.Value != red {
		t.Fatalf("result = %+v", res)
	}
	if res.Warning != "normalized paint from ' RED' to 'red'" {
		t.Errorf("warning = %q", res.Warning)
	}
	if res := n.NormalizeWithWarning("paint", "green"); res.Changed {
		t.Errorf("unchanged input reported as changed: %+v", res)
	}
}

func TestValidKeysIsACopy(t *testing.T) {
	n := colors()
	keys := n.ValidKeys()
	keys[0] = "mutated"
	if n.ValidKeys()[0] == "mutated" {
		t.Error("ValidKeys exposes internal slice")
	}
}
