package main

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderChart_TwoDays(t *testing.T) {
	chart := RenderChart(DailySeries{
		Time:             []string{"2024-06-03", "2024-06-04"},
		Temperature2mMax: []float64{20, 10},
		Temperature2mMin: []float64{10, 0},
	})

	assert.Equal(t, 20.0, chart.MaxTemp)
	assert.Equal(t, 0.0, chart.MinTemp)

	require.Len(t, chart.HighPoints, 2)
	assert.Equal(t, ChartPoint{X: 6, Y: 12, Temp: 20, LabelY: 10}, chart.HighPoints[0])
	assert.Equal(t, ChartPoint{X: 94, Y: 35, Temp: 10, LabelY: 29}, chart.HighPoints[1])

	require.Len(t, chart.LowPoints, 2)
	assert.Equal(t, ChartPoint{X: 6, Y: 35, Temp: 10, LabelY: 43}, chart.LowPoints[0])
	assert.Equal(t, ChartPoint{X: 94, Y: 58, Temp: 0, LabelY: 65}, chart.LowPoints[1])

	assert.Equal(t, "M 6,12 L 94,35", chart.HighPath)
	assert.Equal(t, "M 6,35 L 94,58", chart.LowPath)
	assert.Equal(t, []ChartTick{{X: 6, Label: "Mon"}, {X: 94, Label: "Tue"}}, chart.Ticks)
}

func TestRenderChart_SingleDay(t *testing.T) {
	chart := RenderChart(DailySeries{
		Time:             []string{"2024-06-03"},
		Temperature2mMax: []float64{20},
		Temperature2mMin: []float64{10},
	})

	require.Len(t, chart.HighPoints, 1)
	require.Len(t, chart.LowPoints, 1)
	assert.Equal(t, 50.0, chart.HighPoints[0].X)
	assert.Equal(t, 50.0, chart.LowPoints[0].X)
	assert.Equal(t, 12.0, chart.HighPoints[0].Y)
	assert.Equal(t, 58.0, chart.LowPoints[0].Y)
	assert.Equal(t, "M 50,12", chart.HighPath)
	assert.Equal(t, "M 50,58", chart.LowPath)
}

func TestRenderChart_FlatSeries(t *testing.T) {
	chart := RenderChart(DailySeries{
		Time:             []string{"2024-06-03", "2024-06-04", "2024-06-05"},
		Temperature2mMax: []float64{15, 15, 15},
		Temperature2mMin: []float64{15, 15, 15},
	})

	for _, points := range [][]ChartPoint{chart.HighPoints, chart.LowPoints} {
		require.Len(t, points, 3)
		for _, p := range points {
			assert.False(t, math.IsNaN(p.Y))
			assert.False(t, math.IsInf(p.Y, 0))
			assert.Equal(t, 12.0, p.Y)
		}
	}
	assert.NotContains(t, chart.HighPath, "NaN")
}

func TestRenderChart_Empty(t *testing.T) {
	chart := RenderChart(DailySeries{})
	assert.Empty(t, chart.HighPoints)
	assert.Empty(t, chart.LowPoints)
	assert.Empty(t, chart.HighPath)
	assert.Contains(t, string(chart.SVG()), "<svg")
}

func TestRenderChart_Fixture(t *testing.T) {
	chart := RenderChart(loadForecastFixture(t).Daily)

	assert.Equal(t, 24.6, chart.MaxTemp)
	assert.Equal(t, 10.1, chart.MinTemp)
	require.Len(t, chart.HighPoints, 7)
	require.Len(t, chart.LowPoints, 7)
	require.Len(t, chart.Ticks, 7)
	assert.Equal(t, 94.0, chart.HighPoints[6].X)
	assert.Equal(t, "Sun", chart.Ticks[6].Label)

	for i := range chart.HighPoints {
		// Higher temperatures sit higher on the chart.
		assert.LessOrEqual(t, chart.HighPoints[i].Y, chart.LowPoints[i].Y)
		assert.GreaterOrEqual(t, chart.HighPoints[i].LabelY, highLabelMinY)
		assert.LessOrEqual(t, chart.LowPoints[i].LabelY, lowLabelMaxY)
	}
	assert.Equal(t, 6, strings.Count(chart.HighPath, " L "))
}

func TestRoundTemp(t *testing.T) {
	testCases := []struct {
		in   float64
		want int
	}{
		{21.4, 21},
		{21.5, 22},
		{2.5, 3},
		{-2.5, -2},
		{-2.6, -3},
		{-0.4, 0},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, roundTemp(tc.in), "roundTemp(%v)", tc.in)
	}
}

func TestWeekdayAbbrev(t *testing.T) {
	assert.Equal(t, "Mon", weekdayAbbrev("2024-06-03"))
	assert.Equal(t, "Sat", weekdayAbbrev("2024-06-08"))
	assert.Equal(t, "", weekdayAbbrev("June 3rd"))
}

func TestChartSVG(t *testing.T) {
	chart := RenderChart(DailySeries{
		Time:             []string{"2024-06-03", "2024-06-04"},
		Temperature2mMax: []float64{20, 10},
		Temperature2mMin: []float64{10, 0},
	})
	svg := string(chart.SVG())

	assert.True(t, strings.HasPrefix(svg, `<svg viewBox="0 0 100 90"`))
	assert.True(t, strings.HasSuffix(svg, `</svg>`))
	assert.Contains(t, svg, `<path d="M 6,12 L 94,35" fill="none" stroke="#ff6b6b"`)
	assert.Contains(t, svg, `<path d="M 6,35 L 94,58" fill="none" stroke="#4ecdc4"`)
	assert.Equal(t, 4, strings.Count(svg, "<circle"))
	assert.Contains(t, svg, ">20°</text>")
	assert.Contains(t, svg, ">Tue</text>")
}
