package activity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/taapman/internal/domain/forecast"
)

func TestScoreAllWarmClearNight(t *testing.T) {
	snap := forecast.Snapshot{Temperature: 28, Condition: forecast.Clear, WindSpeedKmh: 10, IsDay: false}
	got := ScoreAll(snap)
	require.Equal(t, []Suitability{
		{Activity: Running, Score: 100, Reason: "Perfect conditions!", Band: BandGood},
		{Activity: Cycling, Score: 100, Reason: "Perfect conditions!", Band: BandGood},
		{Activity: Camping, Score: 100, Reason: "Perfect conditions!", Band: BandGood},
		{Activity: Stargazing, Score: 100, Reason: "Clear skies!", Band: BandGood},
	}, got)
}

func TestStargazingDuringClearDay(t *testing.T) {
	got := Score(Stargazing, forecast.Snapshot{Temperature: 28, Condition: forecast.Clear, WindSpeedKmh: 10, IsDay: true})
	require.Equal(t, 0, got.Score)
	require.Equal(t, "It's daytime", got.Reason)
	require.Equal(t, BandPoor, got.Band)
}

func TestColdSnowyWindy(t *testing.T) {
	snap := forecast.Snapshot{Temperature: 2, Condition: forecast.Snowy, WindSpeedKmh: 35}

	// 2 °C is not below freezing, so only the wind penalty applies.
	running := Score(Running, snap)
	require.Equal(t, 80, running.Score)
	require.Equal(t, "Windy", running.Reason)
	require.Equal(t, BandGood, running.Band)

	cycling := Score(Cycling, snap)
	require.Equal(t, 0, cycling.Score)
	require.Equal(t, "Snow/Ice risk", cycling.Reason)

	camping := Score(Camping, snap)
	require.Equal(t, 40, camping.Score)
	require.Equal(t, "Windy", camping.Reason)
}

func TestReasonIsLastSatisfiedPenalty(t *testing.T) {
	// Hot and raining: the heat penalty is larger but "Raining" is evaluated later.
	got := Score(Running, forecast.Snapshot{Temperature: 35, Condition: forecast.Rainy, WindSpeedKmh: 5})
	require.Equal(t, 30, got.Score)
	require.Equal(t, "Raining", got.Reason)

	got = Score(Camping, forecast.Snapshot{Temperature: 5, Condition: forecast.Rainy, WindSpeedKmh: 0})
	require.Equal(t, 10, got.Score)
	require.Equal(t, "Chilly night", got.Reason)
}

func TestThresholdsAreStrict(t *testing.T) {
	snap := forecast.Snapshot{Temperature: 30, Condition: forecast.Cloudy, WindSpeedKmh: 20}
	require.Equal(t, 100, Score(Running, snap).Score)
	require.Equal(t, 100, Score(Cycling, snap).Score)

	snap = forecast.Snapshot{Temperature: 10, Condition: forecast.Cloudy, WindSpeedKmh: 25}
	require.Equal(t, 100, Score(Camping, snap).Score)

	snap = forecast.Snapshot{Temperature: 0, Condition: forecast.Cloudy, WindSpeedKmh: 30}
	require.Equal(t, 100, Score(Running, snap).Score)
}

func TestStargazingNeedsClearSky(t *testing.T) {
	for _, cond := range []forecast.Category{forecast.Cloudy, forecast.Rainy, forecast.Snowy} {
		for _, isDay := range []bool{true, false} {
			got := Score(Stargazing, forecast.Snapshot{Temperature: 15, Condition: cond, IsDay: isDay})
			require.Equal(t, 0, got.Score)
			require.Equal(t, "Cloudy/Rainy", got.Reason)
		}
	}
}

func TestUnknownActivityKeepsBaseline(t *testing.T) {
	got := Score(Name("Kayaking"), forecast.Snapshot{Temperature: -10, Condition: forecast.Rainy, WindSpeedKmh: 90})
	require.Equal(t, 100, got.Score)
	require.Equal(t, "Perfect conditions!", got.Reason)
}

func TestScoresStayInRange(t *testing.T) {
	for temp := -50.0; temp <= 60; temp += 2.5 {
		for wind := 0.0; wind <= 200; wind += 12.5 {
			for _, cond := range forecast.Categories {
				for _, isDay := range []bool{true, false} {
					snap := forecast.Snapshot{Temperature: temp, Condition: cond, WindSpeedKmh: wind, IsDay: isDay}
					for _, s := range ScoreAll(snap) {
						require.GreaterOrEqual(t, s.Score, 0)
						require.LessOrEqual(t, s.Score, 100)
					}
					stars := Score(Stargazing, snap)
					if cond != forecast.Clear || isDay {
						require.Equal(t, 0, stars.Score)
					}
				}
			}
		}
	}
}
