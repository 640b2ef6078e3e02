package timeexpr

import "testing"

func TestExpand(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text passes through",
			in:   "3600",
			want: "3600",
		},
		{
			name: "bare now is wrapped",
			in:   "now()",
			want: "as_timestamp(now())",
		},
		{
			name: "now with replace chain is wrapped once",
			in:   "now().replace(hour=0)",
			want: "as_timestamp(now().replace(hour=0))",
		},
		{
			name: "NOW alias",
			in:   "_NOW_",
			want: "as_timestamp(now())",
		},
		{
			name: "THIS_MINUTE alias",
			in:   "_THIS_MINUTE_",
			want: "as_timestamp(now().replace(second=0))",
		},
		{
			name: "TODAY expands through hour and minute",
			in:   "_TODAY_",
			want: "as_timestamp(now().replace(second=0).replace(minute=0).replace(hour=0))",
		},
		{
			name: "THIS_YEAR expands through all stages",
			in:   "_THIS_YEAR_",
			want: "as_timestamp(now().replace(second=0).replace(minute=0).replace(hour=0).replace(day=1).replace(month=1))",
		},
		{
			name: "alias inside arithmetic",
			in:   "_TODAY_ - 3600",
			want: "as_timestamp(now().replace(second=0).replace(minute=0).replace(hour=0)) - 3600",
		},
		{
			name: "two occurrences wrapped independently",
			in:   "_NOW_ - _THIS_HOUR_",
			want: "as_timestamp(now()) - as_timestamp(now().replace(second=0).replace(minute=0))",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Expand(tc.in); got != tc.want {
				t.Fatalf("Expand(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

// Expanding an already expanded alias string must not change the replace
// chain, only re-wrap the now() root.
func TestExpand_RepeatedExpansionIsConsistent(t *testing.T) {
	t.Parallel()

	first := Expand("_TODAY_")
	second := Expand(first)
	want := "as_timestamp(as_timestamp(now().replace(second=0).replace(minute=0).replace(hour=0)))"
	if second != want {
		t.Fatalf("second expansion = %q, want %q", second, want)
	}
}
