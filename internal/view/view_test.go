package view

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	require.Equal(t, Badge{"Needs Repair", "orange", "alert-triangle"}, Status(KindAsset, "needs_repair"))
	require.Equal(t, "Completed", Status(KindTodo, "completed").Label)

	unknown := Status(KindAsset, "lost_in_transit")
	require.Equal(t, "Lost In Transit", unknown.Label)
	require.Equal(t, "gray", unknown.Color)

	require.Equal(t, "Unknown", Status(KindTodo, "").Label)
	require.Equal(t, "Éclair Übergabe", Status(KindAsset, "éclair_übergabe").Label)
}

func TestFirstInt(t *testing.T) {
	require.Equal(t, 5, FirstInt("5 today"))
	require.Equal(t, 42, FirstInt("42 min"))
	require.Equal(t, 0, FirstInt("none"))
	require.Equal(t, 1500, FirstInt("1500.75"))
}

func TestChartOf(t *testing.T) {
	require.Nil(t, ChartOf(nil))

	chart := ChartOf([]StatCard{
		Card("My To-Dos", "5 today", "", "", ""),
		Card("My Requests", 3, "", "", ""),
	})
	require.Equal(t, []string{"My To-Dos", "My Requests"}, chart.Labels)
	require.Equal(t, []int{5, 3}, chart.Values)
}

func TestNewPage(t *testing.T) {
	p := NewPage(1, 3, 10, 25)
	require.False(t, p.HasPrev)
	require.True(t, p.HasNext)

	p = NewPage(3, 3, 10, 25)
	require.True(t, p.HasPrev)
	require.False(t, p.HasNext)
}
