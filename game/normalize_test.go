package game

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Amélie", "amelie"},
		{"  Léon: The Professional  ", "leon: the professional"},
		{"ACCIÓN", "accion"},
		{"Señora", "senora"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizedSetSkipsEmpties(t *testing.T) {
	set := normalizedSet([]string{"Action", "  ", "", "acción"})
	if len(set) != 2 {
		t.Fatalf("set size = %d, want 2", len(set))
	}
	if _, ok := set["accion"]; !ok {
		t.Error("expected accent-stripped entry in set")
	}
}
