package main

import (
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"
	"time"
)

// Chart geometry, in SVG user units. The viewBox is 100 wide and chartHeight+20 tall;
// the extra 20 units below the plot hold the weekday ticks.
const (
	chartViewWidth       = 100.0
	chartPadding         = 6.0
	chartWidth           = chartViewWidth - 2*chartPadding
	chartHeight          = 70.0
	chartVerticalPadding = 12.0
	chartAreaHeight      = chartHeight - 2*chartVerticalPadding

	highLabelOffset = 6.0
	lowLabelOffset  = 8.0
	highLabelMinY   = 10.0
	lowLabelMaxY    = chartHeight - 5
	tickY           = chartHeight + 15

	highColor = "#ff6b6b"
	lowColor  = "#4ecdc4"
)

// ChartPoint is one plotted temperature with its label position.
type ChartPoint struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Temp   int     `json:"temp"`
	LabelY float64 `json:"label_y"`
}

// ChartTick is an x-axis label.
type ChartTick struct {
	X     float64 `json:"x"`
	Label string  `json:"label"`
}

// Chart holds everything needed to draw the daily high/low line chart.
type Chart struct {
	MaxTemp    float64      `json:"max_temp"`
	MinTemp    float64      `json:"min_temp"`
	HighPoints []ChartPoint `json:"high_points"`
	LowPoints  []ChartPoint `json:"low_points"`
	HighPath   string       `json:"high_path"`
	LowPath    string       `json:"low_path"`
	Ticks      []ChartTick  `json:"ticks"`
}

// RenderChart lays out the daily highs and lows. Higher temperatures get smaller y
// values. A flat series (max == min) uses a range of 1 so nothing divides by zero,
// and a single day yields one point per line.
func RenderChart(daily DailySeries) Chart {
	highs, lows := daily.Temperature2mMax, daily.Temperature2mMin
	if len(highs) == 0 && len(lows) == 0 {
		return Chart{}
	}

	maxTemp := maxOf(highs, lows)
	minTemp := minOf(lows, highs)
	tempRange := maxTemp - minTemp
	if tempRange == 0 {
		tempRange = 1
	}

	numDays := daily.Len()
	if numDays == 0 {
		numDays = max(len(highs), len(lows))
	}
	xPos := func(i int) float64 {
		if numDays <= 1 {
			return chartViewWidth / 2
		}
		return chartPadding + float64(i)*(chartWidth/float64(numDays-1))
	}
	yPos := func(t float64) float64 {
		return chartVerticalPadding + ((maxTemp-t)/tempRange)*chartAreaHeight
	}

	chart := Chart{
		MaxTemp:    maxTemp,
		MinTemp:    minTemp,
		HighPoints: make([]ChartPoint, len(highs)),
		LowPoints:  make([]ChartPoint, len(lows)),
		Ticks:      make([]ChartTick, len(daily.Time)),
	}
	for i, t := range highs {
		y := yPos(t)
		chart.HighPoints[i] = ChartPoint{X: xPos(i), Y: y, Temp: roundTemp(t), LabelY: math.Max(highLabelMinY, y-highLabelOffset)}
	}
	for i, t := range lows {
		y := yPos(t)
		chart.LowPoints[i] = ChartPoint{X: xPos(i), Y: y, Temp: roundTemp(t), LabelY: math.Min(lowLabelMaxY, y+lowLabelOffset)}
	}
	for i, date := range daily.Time {
		chart.Ticks[i] = ChartTick{X: xPos(i), Label: weekdayAbbrev(date)}
	}
	chart.HighPath = linePath(chart.HighPoints)
	chart.LowPath = linePath(chart.LowPoints)
	return chart
}

// roundTemp rounds halves towards positive infinity, so -2.5 becomes -2.
func roundTemp(t float64) int {
	return int(math.Floor(t + 0.5))
}

// weekdayAbbrev turns "2006-01-02" into "Mon". Unparseable dates give "".
func weekdayAbbrev(date string) string {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return ""
	}
	return d.Format("Mon")
}

func maxOf(primary, fallback []float64) float64 {
	values := primary
	if len(values) == 0 {
		values = fallback
	}
	m := math.Inf(-1)
	for _, v := range values {
		m = math.Max(m, v)
	}
	return m
}

func minOf(primary, fallback []float64) float64 {
	values := primary
	if len(values) == 0 {
		values = fallback
	}
	m := math.Inf(1)
	for _, v := range values {
		m = math.Min(m, v)
	}
	return m
}

func linePath(points []ChartPoint) string {
	if len(points) == 0 {
		return ""
	}
	segments := make([]string, len(points))
	for i, p := range points {
		segments[i] = formatCoord(p.X) + "," + formatCoord(p.Y)
	}
	return "M " + strings.Join(segments, " L ")
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// SVG serializes the chart. All interpolated values are numbers or weekday names
// produced by RenderChart, so the result is safe to embed in a page.
func (c Chart) SVG() template.HTML {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg viewBox="0 0 %s %s" class="chart" preserveAspectRatio="xMidYMid meet" xmlns="http://www.w3.org/2000/svg">`,
		formatCoord(chartViewWidth), formatCoord(chartHeight+20))
	b.WriteString(`<defs><pattern id="grid" width="10" height="10" patternUnits="userSpaceOnUse">`)
	b.WriteString(`<path d="M 10 0 L 0 0 0 10" fill="none" stroke="#f0f0f0" stroke-width="0.5"/></pattern></defs>`)
	fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="url(#grid)" stroke="#e0e0e0" stroke-width="0.5" rx="2" ry="2"/>`,
		formatCoord(chartPadding), formatCoord(chartVerticalPadding), formatCoord(chartWidth), formatCoord(chartHeight-14))

	writeSeries(&b, c.HighPath, c.HighPoints, highColor)
	writeSeries(&b, c.LowPath, c.LowPoints, lowColor)

	for _, t := range c.Ticks {
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" class="axis-label" font-size="2.8">%s</text>`,
			formatCoord(t.X), formatCoord(tickY), template.HTMLEscapeString(t.Label))
	}
	b.WriteString(`</svg>`)
	return template.HTML(b.String())
}

func writeSeries(b *strings.Builder, path string, points []ChartPoint, color string) {
	if path != "" {
		fmt.Fprintf(b, `<path d="%s" fill="none" stroke="%s" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"/>`, path, color)
	}
	for _, p := range points {
		fmt.Fprintf(b, `<g class="data-point"><circle cx="%s" cy="%s" r="1.2" fill="%s" stroke="white" stroke-width="0.5"/>`,
			formatCoord(p.X), formatCoord(p.Y), color)
		fmt.Fprintf(b, `<text x="%s" y="%s" text-anchor="middle" class="temp-label" font-size="3.2" font-weight="600" dominant-baseline="middle">%d°</text></g>`,
			formatCoord(p.X), formatCoord(p.LabelY), p.Temp)
	}
}
