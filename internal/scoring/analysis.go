package scoring

import (
	"math"
	"sort"
	"strings"
)

// Outlier is an area whose final score sits more than one standard deviation
// below the mean of its state.
type Outlier struct {
	Scored
	StateCount  int     `json:"state_count"`
	StateMean   float64 `json:"state_mean"`
	StateStdDev float64 `json:"state_stddev"`
}

// FindOutliers compares every area to its state. States with fewer than
// minGroup areas are skipped as unreliable comps. Results are ordered by
// final score, lowest first.
func FindOutliers(scored []Scored, minGroup int) []Outlier {
	byState := make(map[string][]float64)
	for _, s := range scored {
		byState[s.Area.StateID] = append(byState[s.Area.StateID], float64(s.Result.FinalScore))
	}

	type stat struct {
		mean, std float64
		n         int
	}
	stats := make(map[string]stat, len(byState))
	for st, vals := range byState {
		if len(vals) < minGroup {
			continue
		}
		m, sd := meanStd(vals)
		stats[st] = stat{mean: m, std: sd, n: len(vals)}
	}

	var out []Outlier
	for _, s := range scored {
		st, ok := stats[s.Area.StateID]
		if !ok {
			continue
		}
		if float64(s.Result.FinalScore) < st.mean-st.std {
			out = append(out, Outlier{
				Scored:      s,
				StateCount:  st.n,
				StateMean:   st.mean,
				StateStdDev: st.std,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Result.FinalScore == out[j].Result.FinalScore {
			return out[i].Area.Zip < out[j].Area.Zip
		}
		return out[i].Result.FinalScore < out[j].Result.FinalScore
	})
	return out
}

// FilterByLabel returns the scored areas carrying label (case-insensitive),
// in input order.
func FilterByLabel(scored []Scored, label string) []Scored {
	label = strings.TrimSpace(label)
	var out []Scored
	for _, s := range scored {
		if strings.EqualFold(s.Result.Label, label) {
			out = append(out, s)
		}
	}
	return out
}

// meanStd returns the mean and population standard deviation of vals.
func meanStd(vals []float64) (mean, std float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	for _, v := range vals {
		std += (v - mean) * (v - mean)
	}
	std = math.Sqrt(std / float64(len(vals)))
	return
}
