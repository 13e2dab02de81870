// Package outfit recommends clothing for a weather snapshot using fixed
// temperature, precipitation and wind thresholds.
package outfit

import "github.com/yanqian/taapman/internal/domain/forecast"

// Slot groups a suggestion by where it is worn.
type Slot string

const (
	SlotTop       Slot = "top"
	SlotBottom    Slot = "bottom"
	SlotAccessory Slot = "accessory"
)

// Suggestion is a display tuple; it has no identity beyond its position.
type Suggestion struct {
	Slot  Slot   `json:"slot"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
	Color string `json:"color"`
}

var (
	lightTop   = Suggestion{Slot: SlotTop, Icon: "shirt", Label: "T-shirt / Light Top", Color: "orange-500"}
	layeredTop = Suggestion{Slot: SlotTop, Icon: "shirt", Label: "Long Sleeve / Hoodie", Color: "blue-500"}
	jacket     = Suggestion{Slot: SlotTop, Icon: "shirt", Label: "Jacket / Sweater", Color: "indigo-600"}
	heavyCoat  = Suggestion{Slot: SlotTop, Icon: "snowflake", Label: "Heavy Coat / Thermal", Color: "cyan-600"}

	shorts   = Suggestion{Slot: SlotBottom, Icon: "shirt", Label: "Shorts / Skirt", Color: "orange-500"}
	trousers = Suggestion{Slot: SlotBottom, Icon: "shirt", Label: "Jeans / Trousers", Color: "slate-700"}

	umbrella    = Suggestion{Slot: SlotAccessory, Icon: "umbrella", Label: "Umbrella / Raincoat", Color: "blue-600"}
	snowBoots   = Suggestion{Slot: SlotAccessory, Icon: "snowflake", Label: "Snow Boots", Color: "cyan-500"}
	sunglasses  = Suggestion{Slot: SlotAccessory, Icon: "glasses", Label: "Sunglasses", Color: "amber-600"}
	windbreaker = Suggestion{Slot: SlotAccessory, Icon: "wind", Label: "Windbreaker", Color: "slate-500"}
)

// Suggest returns the top, the bottom, then every accessory whose guard holds.
func Suggest(snap forecast.Snapshot) []Suggestion {
	temp := snap.Temperature
	raining := snap.Condition.IsRaining()
	snowing := snap.Condition.IsSnowing()

	out := make([]Suggestion, 0, 6)
	out = append(out, topFor(temp), bottomFor(temp))

	if raining {
		out = append(out, umbrella)
	}
	if snowing {
		out = append(out, snowBoots)
	}
	if temp > 20 && !raining && !snowing {
		out = append(out, sunglasses)
	}
	if snap.WindSpeedKmh > 20 {
		out = append(out, windbreaker)
	}
	return out
}

func topFor(temp float64) Suggestion {
	switch {
	case temp >= 25:
		return lightTop
	case temp >= 15:
		return layeredTop
	case temp >= 5:
		return jacket
	default:
		return heavyCoat
	}
}

func bottomFor(temp float64) Suggestion {
	if temp >= 25 {
		return shorts
	}
	return trousers
}
