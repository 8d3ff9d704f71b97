package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func names(list []Exercise) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Name
	}
	return out
}

func TestNewDropsBlankAndDuplicates(t *testing.T) {
	c := New([]Exercise{
		{Name: "Squat", Category: "Legs"},
		{Name: "  "},
		{Name: "squat", Category: "Other"},
		{Name: " Bench Press ", Category: "Chest"},
	})

	want := []Exercise{
		{Name: "Squat", Category: "Legs"},
		{Name: "Bench Press", Category: "Chest"},
	}
	if diff := cmp.Diff(want, c.All()); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.Len() == 0 {
		t.Fatal("default catalog is empty")
	}
	if c.Len() != len(builtin) {
		t.Errorf("default catalog dropped entries: %d of %d", c.Len(), len(builtin))
	}
	if _, ok := c.Lookup("bench press"); !ok {
		t.Error("Lookup is not case-insensitive")
	}
	if _, ok := c.Lookup("Underwater Basket Weaving"); ok {
		t.Error("Lookup found a made-up exercise")
	}
}

func TestSearch(t *testing.T) {
	c := New([]Exercise{
		{Name: "Bench Press", Category: "Chest"},
		{Name: "Squat", Category: "Legs"},
		{Name: "Leg Curl", Category: "Legs"},
		{Name: "Overhead Press", Category: "Shoulders"},
	})

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query returns all", query: "  ", want: []string{"Bench Press", "Squat", "Leg Curl", "Overhead Press"}},
		{name: "exact name first", query: "squat", want: []string{"Squat"}},
		{name: "matches category", query: "shoulders", want: []string{"Overhead Press"}},
		{name: "no match", query: "zzz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(c.Search(tt.query))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Search(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestSearchRanksCloserMatches(t *testing.T) {
	c := Default()
	got := c.Search("bench")
	if len(got) == 0 {
		t.Fatal("no results for bench")
	}
	if got[0].Name != "Bench Press" {
		t.Errorf("first result = %q, want Bench Press", got[0].Name)
	}
}

func TestCategories(t *testing.T) {
	c := New([]Exercise{
		{Name: "A", Category: "Legs"},
		{Name: "B", Category: "Chest"},
		{Name: "C", Category: "Legs"},
	})
	if diff := cmp.Diff([]string{"Chest", "Legs"}, c.Categories()); diff != "" {
		t.Errorf("Categories mismatch (-want +got):\n%s", diff)
	}
}
