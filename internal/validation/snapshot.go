package validation

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/storage"
)

// ReadSnapshot decodes the stored workouts, routines and session from p as
// they are on disk, without the cleanup the workout store applies on load.
// Missing keys read as empty.
func ReadSnapshot(p storage.Provider) (Snapshot, error) {
	var snap Snapshot
	if err := readKey(p, constants.WorkoutsKey, &snap.Workouts); err != nil {
		return Snapshot{}, err
	}
	if err := readKey(p, constants.TemplatesKey, &snap.Templates); err != nil {
		return Snapshot{}, err
	}

	var session struct {
		CurrentWorkoutID string `json:"currentWorkoutId"`
		RoutineDraftID   string `json:"routineDraftId"`
	}
	if err := readKey(p, constants.SessionKey, &session); err != nil {
		return Snapshot{}, err
	}
	snap.CurrentWorkoutID = session.CurrentWorkoutID
	snap.RoutineDraftID = session.RoutineDraftID
	return snap, nil
}

func readKey(p storage.Provider, key string, v any) error {
	data, err := p.GetItem(key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("malformed %s: %w", key, err)
	}
	return nil
}
