package ingest

import "github.com/hangarbay/hangar-server/internal/domain"

// KindCounts tallies what one pipeline run did to one entity kind.
type KindCounts struct {
	Inserted int64 `json:"inserted"`
	Updated  int64 `json:"updated"`
	Skipped  int64 `json:"skipped"`
}

// Report summarizes one full pipeline run.
type Report struct {
	Counts       map[domain.Kind]*KindCounts `json:"counts"`
	EdgesCleared int64                       `json:"edgesCleared"`
	EdgesAdded   int64                       `json:"edgesAdded"`
	Retired      int64                       `json:"retired"`
}

// NewReport returns a report with zeroed counters for every kind.
func NewReport() *Report {
	r := &Report{Counts: make(map[domain.Kind]*KindCounts)}
	for _, kind := range domain.SyncOrder {
		r.Counts[kind] = &KindCounts{}
	}
	return r
}

func (r *Report) add(kind domain.Kind, inserted bool) {
	if inserted {
		r.Counts[kind].Inserted++
	} else {
		r.Counts[kind].Updated++
	}
}

func (r *Report) skip(kind domain.Kind) {
	r.Counts[kind].Skipped++
}
