package scoring

import (
	"errors"
	"sort"

	"musescore/internal/types"
)

// Scored pairs an area with its result.
type Scored struct {
	Area   types.AreaRecord `json:"area"`
	Result ScoreResult      `json:"result"`
}

// Exclusion records an area dropped from a batch and why.
type Exclusion struct {
	Zip string
	Err error
}

// ComputeAll scores every record for agi. Column statistics are computed once
// over records and shared by every row.
func ComputeAll(agi float64, records []types.AreaRecord) ([]Scored, []Exclusion, error) {
	return ComputeAllWithStats(agi, records, ComputeStats(records))
}

// ComputeAllWithStats is ComputeAll with precomputed statistics. Output keeps
// input order. A bad AGI fails the whole batch; a bad record is excluded and
// reported.
func ComputeAllWithStats(agi float64, records []types.AreaRecord, stats Stats) ([]Scored, []Exclusion, error) {
	if err := checkAGI(agi); err != nil {
		return nil, nil, err
	}

	scored := make([]Scored, 0, len(records))
	var excluded []Exclusion
	for _, r := range records {
		res, err := ComputeScore(agi, r, stats)
		if err != nil {
			if errors.Is(err, ErrInvalidData) || errors.Is(err, ErrInvalidInput) {
				excluded = append(excluded, Exclusion{Zip: r.Zip, Err: err})
				continue
			}
			return nil, nil, err
		}
		scored = append(scored, Scored{Area: r, Result: res})
	}
	return scored, excluded, nil
}

// AggregateByRegion returns the mean final score per state_id. States with no
// scored areas are absent.
func AggregateByRegion(scored []Scored) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, s := range scored {
		sums[s.Area.StateID] += float64(s.Result.FinalScore)
		counts[s.Area.StateID]++
	}
	means := make(map[string]float64, len(sums))
	for state, sum := range sums {
		means[state] = sum / float64(counts[state])
	}
	return means
}

// RegionSummary describes the scores of one state.
type RegionSummary struct {
	State string  `json:"state"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   int     `json:"min"`
	Max   int     `json:"max"`
}

// Summarize groups scored areas by state, sorted by state.
func Summarize(scored []Scored) []RegionSummary {
	byState := make(map[string]*RegionSummary)
	sums := make(map[string]float64)
	for _, s := range scored {
		st := s.Area.StateID
		fs := s.Result.FinalScore
		sum, ok := byState[st]
		if !ok {
			sum = &RegionSummary{State: st, Min: fs, Max: fs}
			byState[st] = sum
		}
		sum.Count++
		sums[st] += float64(fs)
		if fs < sum.Min {
			sum.Min = fs
		}
		if fs > sum.Max {
			sum.Max = fs
		}
	}

	out := make([]RegionSummary, 0, len(byState))
	for st, sum := range byState {
		sum.Mean = sums[st] / float64(sum.Count)
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].State < out[j].State })
	return out
}

// Highlight tags.
const (
	TagSelected = "Selected"
	TagOther    = "Other"
)

// Highlight tags each state as TagSelected or TagOther for the state map.
func Highlight(states []string, selected string) map[string]string {
	out := make(map[string]string, len(states))
	for _, st := range states {
		if st == selected {
			out[st] = TagSelected
		} else {
			out[st] = TagOther
		}
	}
	return out
}
