package models

// Stats aggregates completed workouts.
type Stats struct {
	TotalWorkouts   int     `json:"totalWorkouts"`
	TotalExercises  int     `json:"totalExercises"`
	TotalSets       int     `json:"totalSets"`
	TotalVolume     float64 `json:"totalWeight"`
	AverageDuration float64 `json:"averageDuration"` // minutes
}

// ComputeStats only counts completed workouts. Workouts without a recorded
// duration contribute zero minutes to the average.
func ComputeStats(workouts []Workout) Stats {
	var st Stats
	totalDuration := 0
	for _, w := range workouts {
		if !w.Completed {
			continue
		}
		st.TotalWorkouts++
		st.TotalExercises += len(w.Exercises)
		st.TotalSets += w.SetCount()
		st.TotalVolume += w.Volume()
		if w.Duration != nil {
			totalDuration += *w.Duration
		}
	}
	if st.TotalWorkouts > 0 {
		st.AverageDuration = float64(totalDuration) / float64(st.TotalWorkouts)
	}
	return st
}
