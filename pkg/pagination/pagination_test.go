package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "zero uses default", limit: 0, want: DefaultLimit},
		{name: "negative uses default", limit: -3, want: DefaultLimit},
		{name: "within range passes through", limit: 10, want: 10},
		{name: "above max clamps", limit: MaxLimit + 1, want: MaxLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeLimit(tc.limit); got != tc.want {
				t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.limit, got, tc.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(Params{Skip: -5, Limit: 0})
	if got.Skip != 0 {
		t.Fatalf("expected skip clamped to 0, got %d", got.Skip)
	}
	if got.Limit != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got.Limit)
	}
}
