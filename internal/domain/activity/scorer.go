package activity

import "github.com/yanqian/taapman/internal/domain/forecast"

// Name identifies an outdoor activity.
type Name string

const (
	Running    Name = "Running"
	Cycling    Name = "Cycling"
	Camping    Name = "Camping"
	Stargazing Name = "Stargazing"
)

// Names lists the activities in display order.
var Names = []Name{Running, Cycling, Camping, Stargazing}

// Band buckets a score the way the dashboard colours it.
type Band string

const (
	BandGood Band = "good"
	BandFair Band = "fair"
	BandPoor Band = "poor"
)

const (
	maxScore      = 100
	perfectReason = "Perfect conditions!"
)

// Suitability is the verdict for one activity.
type Suitability struct {
	Activity Name   `json:"activity"`
	Score    int    `json:"score"`
	Reason   string `json:"reason"`
	Band     Band   `json:"band"`
}

// ScoreAll scores every activity in Names order.
func ScoreAll(snap forecast.Snapshot) []Suitability {
	out := make([]Suitability, 0, len(Names))
	for _, name := range Names {
		out = append(out, Score(name, snap))
	}
	return out
}

// Score starts from a perfect score and subtracts every penalty that applies.
// Each penalty also replaces the reason, so the reported reason belongs to the
// last satisfied rule rather than the most severe one.
func Score(name Name, snap forecast.Snapshot) Suitability {
	temp := snap.Temperature
	wind := snap.WindSpeedKmh
	raining := snap.Condition.IsRaining()
	snowing := snap.Condition.IsSnowing()

	score := maxScore
	reason := perfectReason
	penalize := func(cond bool, points int, why string) {
		if cond {
			score -= points
			reason = why
		}
	}

	switch name {
	case Running:
		penalize(temp > 30, 40, "Too hot")
		penalize(temp < 0, 30, "Too cold")
		penalize(raining, 30, "Raining")
		penalize(wind > 30, 20, "Windy")
	case Cycling:
		penalize(wind > 20, 40, "Too windy")
		penalize(raining, 50, "Raining")
		penalize(snowing, 80, "Snow/Ice risk")
	case Camping:
		penalize(raining, 60, "Rain expected")
		penalize(temp < 10, 30, "Chilly night")
		penalize(wind > 25, 30, "Windy")
	case Stargazing:
		switch {
		case !snap.Condition.IsClear():
			score, reason = 0, "Cloudy/Rainy"
		case snap.IsDay:
			score, reason = 0, "It's daytime"
		case score == maxScore:
			reason = "Clear skies!"
		}
	}

	if score < 0 {
		score = 0
	}
	return Suitability{Activity: name, Score: score, Reason: reason, Band: bandFor(score)}
}

func bandFor(score int) Band {
	switch {
	case score >= 80:
		return BandGood
	case score >= 50:
		return BandFair
	default:
		return BandPoor
	}
}
