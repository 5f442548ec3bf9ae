package weather

import (
	"context"
	"math"
	"math/rand"
	"time"

	"daytodo/internal/model"
)

const (
	DefaultLocation = "창원시"
	DefaultDelay    = time.Second
)

type condition struct {
	name  string
	icon  string
	color string
}

var conditions = []condition{
	{name: "맑음", icon: "☀️", color: "#FFA726"},
	{name: "구름많음", icon: "⛅", color: "#42A5F5"},
	{name: "흐림", icon: "☁️", color: "#78909C"},
	{name: "비", icon: "🌧️", color: "#5C6BC0"},
}

const defaultColor = "#2196F3"

// ConditionColor returns the accent color for a condition; unknown conditions get the
// default blue.
func ConditionColor(name string) string {
	for _, c := range conditions {
		if c.name == name {
			return c.color
		}
	}
	return defaultColor
}

// DemoFetcher produces randomized readings after a simulated network delay. It stands in for
// a real data source behind the Fetcher contract.
type DemoFetcher struct {
	Location string
	Delay    time.Duration
	Rand     *rand.Rand
}

func NewDemoFetcher(location string) *DemoFetcher {
	if location == "" {
		location = DefaultLocation
	}
	return &DemoFetcher{
		Location: location,
		Delay:    DefaultDelay,
		Rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (d *DemoFetcher) Fetch(ctx context.Context) (model.Weather, error) {
	if d.Delay > 0 {
		timer := time.NewTimer(d.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return model.Weather{}, ctx.Err()
		case <-timer.C:
		}
	}

	r := d.Rand
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	c := conditions[r.Intn(len(conditions))]
	wind := r.Float64()*3 + 1
	return model.Weather{
		Location:    d.Location,
		Temperature: r.Intn(15) + 10,
		Condition:   c.name,
		Icon:        c.icon,
		Humidity:    r.Intn(30) + 40,
		WindSpeed:   math.Round(wind*10) / 10,
	}, nil
}
