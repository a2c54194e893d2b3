package view

import (
	"fmt"
	"regexp"
	"strconv"
)

// StatCard is one dashboard tile. Value is shown verbatim, e.g. "5 today" or "3".
type StatCard struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

func Card(name string, value interface{}, description, icon, color string) StatCard {
	return StatCard{Name: name, Value: fmt.Sprint(value), Description: description, Icon: icon, Color: color}
}

// Chart is the overview bar chart under the cards.
type Chart struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

var firstInt = regexp.MustCompile(`\d+`)

// FirstInt is the first run of digits in s, 0 when there is none.
func FirstInt(s string) int {
	m := firstInt.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// ChartOf charts the cards by name, plotting the first integer of each value.
func ChartOf(cards []StatCard) *Chart {
	if len(cards) == 0 {
		return nil
	}
	chart := &Chart{Labels: make([]string, 0, len(cards)), Values: make([]int, 0, len(cards))}
	for _, c := range cards {
		chart.Labels = append(chart.Labels, c.Name)
		chart.Values = append(chart.Values, FirstInt(c.Value))
	}
	return chart
}

// QuickAction is a dashboard shortcut to another page.
type QuickAction struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Dashboard is the dashboard page. TimedOut is set when the cards did not arrive within the wait ceiling.
type Dashboard struct {
	Greeting     string        `json:"greeting"`
	Role         string        `json:"role"`
	Loading      bool          `json:"loading"`
	TimedOut     bool          `json:"timed_out"`
	Error        string        `json:"error,omitempty"`
	Cards        []StatCard    `json:"cards"`
	EmptyMessage string        `json:"empty_message,omitempty"`
	Chart        *Chart        `json:"chart,omitempty"`
	QuickActions []QuickAction `json:"quick_actions"`
}
