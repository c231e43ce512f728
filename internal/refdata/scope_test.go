package refdata

import (
	"reflect"
	"testing"
)

func TestResolveScope(t *testing.T) {
	s := refSnapshot()

	cases := []struct {
		name     string
		selected []string
		want     []string
	}{
		{"empty selects everything", nil, []string{"fac-1", "fac-2", "fac-3"}},
		{"single facility", []string{"fac-2"}, []string{"fac-2"}},
		{"sub-region expands", []string{"sr-ne"}, []string{"fac-1", "fac-2"}},
		{"region expands", []string{"r-west"}, []string{"fac-3"}},
		{"country expands", []string{"us"}, []string{"fac-1", "fac-2", "fac-3"}},
		{"mixed dedupes in order", []string{"fac-3", "sr-ne", "fac-1"}, []string{"fac-3", "fac-1", "fac-2"}},
		{"unknown yields nothing", []string{"mars"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.ResolveScope(tc.selected)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ResolveScope(%v) = %v, want %v", tc.selected, got, tc.want)
			}
		})
	}
}
