package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/liftlog/internal/config"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/storage"
	"github.com/julianstephens/liftlog/internal/workout"
)

func setupTestContext(t *testing.T) *Context {
	t.Helper()
	provider := storage.NewMemoryStore()
	if err := provider.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	store := workout.NewStore(provider)
	t.Cleanup(store.Close)
	return &Context{Store: store, Provider: provider, Config: config.Default()}
}

func TestMatchPrefix(t *testing.T) {
	ids := []string{"abc123", "abd456", "abc"}
	idOf := func(s string) string { return s }

	tests := []struct {
		name    string
		ref     string
		want    int
		wantErr error
	}{
		{name: "exact match wins over prefix", ref: "abc", want: 2},
		{name: "unique prefix", ref: "abd", want: 1},
		{name: "ambiguous prefix", ref: "ab", wantErr: ErrAmbiguousID},
		{name: "no match", ref: "zzz", wantErr: storage.ErrNotFound},
		{name: "empty ref", ref: "  ", wantErr: storage.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := matchPrefix(ids, tt.ref, idOf)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("matchPrefix(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("matchPrefix(%q) = %d, want %d", tt.ref, got, tt.want)
			}
		})
	}
}

func TestResolveWorkout(t *testing.T) {
	ctx := setupTestContext(t)

	if _, err := ctx.ResolveWorkout("current"); !errors.Is(err, ErrNoCurrentWorkout) {
		t.Errorf("current with nothing in progress: %v", err)
	}
	if _, err := ctx.ResolveWorkout("draft"); !errors.Is(err, ErrNoRoutineDraft) {
		t.Errorf("draft with no draft: %v", err)
	}

	w := ctx.Store.CreateWorkout("Push")
	draft := ctx.Store.StartRoutineDraft("Legs")

	for _, ref := range []string{"", "current", "CURRENT", w.ID, w.ID[:6]} {
		got, err := ctx.ResolveWorkout(ref)
		if err != nil {
			t.Errorf("ResolveWorkout(%q) = %v", ref, err)
			continue
		}
		if got.ID != w.ID {
			t.Errorf("ResolveWorkout(%q) = %s, want %s", ref, got.ID, w.ID)
		}
	}

	got, err := ctx.ResolveWorkout("draft")
	if err != nil || got.ID != draft.ID {
		t.Errorf("ResolveWorkout(draft) = %v, %v", got.ID, err)
	}
}

func TestResolveTemplateByName(t *testing.T) {
	ctx := setupTestContext(t)
	tpl := ctx.Store.SaveTemplateDirectly(models.WorkoutTemplate{Name: "Upper Body"})

	got, err := ctx.ResolveTemplate("upper body")
	if err != nil {
		t.Fatalf("ResolveTemplate by name: %v", err)
	}
	if got.ID != tpl.ID {
		t.Errorf("ResolveTemplate = %s, want %s", got.ID, tpl.ID)
	}
	if _, err := ctx.ResolveTemplate("lower body"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown routine: %v", err)
	}
}

func TestResolveExerciseAndSet(t *testing.T) {
	w := models.Workout{
		Exercises: []models.Exercise{
			{ID: "e-bench", Name: "Bench Press", Sets: []models.Set{{ID: "s-1"}, {ID: "s-2"}}},
			{ID: "e-row", Name: "Barbell Row"},
		},
	}

	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{ref: "1", want: "e-bench"},
		{ref: "2", want: "e-row"},
		{ref: "3", wantErr: true},
		{ref: "0", wantErr: true},
		{ref: "e-r", want: "e-row"},
		{ref: "e-", wantErr: true},
		{ref: "barbell row", want: "e-row"},
		{ref: "Squat", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ResolveExercise(w, tt.ref)
		if (err != nil) != tt.wantErr {
			t.Errorf("ResolveExercise(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			continue
		}
		if err == nil && got.ID != tt.want {
			t.Errorf("ResolveExercise(%q) = %s, want %s", tt.ref, got.ID, tt.want)
		}
	}

	set, err := ResolveSet(w.Exercises[0], "2")
	if err != nil || set.ID != "s-2" {
		t.Errorf("ResolveSet(2) = %v, %v", set.ID, err)
	}
	if _, err := ResolveSet(w.Exercises[1], "1"); err == nil {
		t.Error("ResolveSet on an exercise without sets should fail")
	}
}

func TestFormatSet(t *testing.T) {
	tests := []struct {
		set  models.Set
		want string
	}{
		{set: models.Set{Reps: 8, Weight: 60}, want: "1. 8 × 60 kg"},
		{set: models.Set{Reps: 10, Weight: 42.5, Type: models.SetTypeWarmup}, want: "1. 10 × 42.5 kg [W]"},
		{set: models.Set{Reps: 5, Weight: 100, Completed: true, Type: models.SetTypeFailure}, want: "1. 5 × 100 kg [F] ✓"},
	}
	for _, tt := range tests {
		if got := FormatSet(1, tt.set, "kg"); got != tt.want {
			t.Errorf("FormatSet = %q, want %q", got, tt.want)
		}
	}
}

func TestConfirm(t *testing.T) {
	orig := Stdin
	t.Cleanup(func() { Stdin = orig })

	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "", want: false},
		{input: "y", want: true},
	}
	for _, tt := range tests {
		Stdin = strings.NewReader(tt.input)
		if got := Confirm("Continue?"); got != tt.want {
			t.Errorf("Confirm with %q = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFlushReportsPersistErr(t *testing.T) {
	ctx := setupTestContext(t)
	if err := ctx.Flush(); err != nil {
		t.Errorf("Flush on a healthy store = %v", err)
	}
}
