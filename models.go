package main

import "time"

const (
	// NumberMax is the highest ball in the draw universe 1..NumberMax.
	NumberMax = 49
	// DrawSize is the count of winning numbers per draw, special excluded.
	DrawSize = 6
)

type DrawRecord struct {
	IssueNo       string    // "YY/NNN", zero-padded sequence
	DrawDate      time.Time // normalized to noon UTC to avoid day-shift
	Numbers       []int     // 6 distinct ints in [1,49], ascending
	SpecialNumber int       // in [1,49], never among Numbers
	Source        string    // provenance: "official_api", "third_party_api_1", "local_csv", ...
}

type Pick struct {
	Number int
	Rank   int // 1 = highest score
	Score  float64
	Reason string
}

// SpecialCandidate is the extra-number suggestion attached to a run:
// the highest-scored number outside the main six.
type SpecialCandidate struct {
	Number int
	Score  float64
}

type StrategyDef struct {
	ID      string
	Version string
	Label   string
	// Weight triple over the normalized signal maps.
	WFreq     float64
	WOmission float64
	WMomentum float64
	// Ensemble strategies rank-vote across all base strategies
	// instead of using the weight triple.
	Ensemble bool
}

// Strategies lists every scoring strategy in the fixed order jobs run them.
// balanced_v1 is the designated default.
var Strategies = []StrategyDef{
	{ID: "balanced_v1", Version: "v1", Label: "balanced blend", WFreq: 0.40, WOmission: 0.30, WMomentum: 0.30},
	{ID: "hot_v1", Version: "v1", Label: "hot numbers", WFreq: 0.80, WOmission: 0.00, WMomentum: 0.20},
	{ID: "cold_rebound_v1", Version: "v1", Label: "cold rebound", WFreq: 0.00, WOmission: 0.70, WMomentum: 0.30},
	{ID: "momentum_v1", Version: "v1", Label: "recent momentum", WFreq: 0.10, WOmission: 0.00, WMomentum: 0.90},
	{ID: "ensemble_v2", Version: "v2", Label: "ensemble vote", Ensemble: true},
}

func StrategyByID(id string) (StrategyDef, bool) {
	for _, s := range Strategies {
		if s.ID == id {
			return s, true
		}
	}
	return StrategyDef{}, false
}

func DefaultStrategyIDs() []string {
	ids := make([]string, 0, len(Strategies))
	for _, s := range Strategies {
		ids = append(ids, s.ID)
	}
	return ids
}
