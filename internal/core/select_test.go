package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSelect(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want map[string]int
	}{
		{name: "empty", in: "", want: nil},
		{name: "whitespace only", in: "   ", want: nil},
		{name: "inclusion", in: "title body", want: map[string]int{"title": 1, "body": 1}},
		{name: "exclusion", in: "-body", want: map[string]int{"body": 0}},
		{name: "mixed with id exclusion", in: "title -_id", want: map[string]int{"title": 1, "_id": 0}},
		{name: "forced inclusion", in: "+secret -body", want: map[string]int{"secret": 1, "body": 0}},
		{name: "bare minus ignored", in: "- title", want: map[string]int{"title": 1}},
		{name: "dotted fields", in: "meta.owner -meta.internal", want: map[string]int{"meta.owner": 1, "meta.internal": 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseSelect(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("unexpected projection (-want +got):\n%s", diff)
			}
		})
	}
}
