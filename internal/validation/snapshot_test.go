package validation

import (
	"testing"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/storage"
)

func TestReadSnapshot(t *testing.T) {
	p := storage.NewMemoryStore()
	if err := p.Init(); err != nil {
		t.Fatal(err)
	}

	snap, err := ReadSnapshot(p)
	if err != nil {
		t.Fatalf("ReadSnapshot on empty storage: %v", err)
	}
	if len(snap.Workouts) != 0 || len(snap.Templates) != 0 || snap.CurrentWorkoutID != "" {
		t.Errorf("empty storage read as %+v", snap)
	}

	items := map[string]string{
		constants.WorkoutsKey:  `[{"id":"w1","name":"Push","exercises":[]},{"id":"w1","name":"Pull","exercises":[]}]`,
		constants.TemplatesKey: `[{"id":"t1","name":"Legs","exercises":[]}]`,
		constants.SessionKey:   `{"currentWorkoutId":"w1","routineDraftId":"w9"}`,
	}
	for k, v := range items {
		if err := p.SetItem(k, []byte(v)); err != nil {
			t.Fatal(err)
		}
	}

	snap, err = ReadSnapshot(p)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if len(snap.Workouts) != 2 || len(snap.Templates) != 1 {
		t.Errorf("read %d workouts and %d routines", len(snap.Workouts), len(snap.Templates))
	}
	if snap.CurrentWorkoutID != "w1" || snap.RoutineDraftID != "w9" {
		t.Errorf("session = %q / %q", snap.CurrentWorkoutID, snap.RoutineDraftID)
	}

	// duplicates survive the read so they can be reported
	result := New().Validate(snap)
	if result.Count(ConflictDuplicateWorkoutID) == 0 {
		t.Errorf("duplicate workout id not reported:\n%s", result.FormatReport())
	}

	if err := p.SetItem(constants.WorkoutsKey, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadSnapshot(p); err == nil {
		t.Error("expected an error for malformed data")
	}
}
