package web

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/liut/cryptopulse/pkg/models/pulse"
)

const (
	chartWidth  = 720.0
	chartHeight = 280.0
	chartPad    = 40.0
	dateLayout  = "2006-01-02"
)

// ChartPoint is one vertex of the price line in svg coordinates
type ChartPoint struct {
	X     float64
	Y     float64
	Date  string
	Price string
}

// Chart is a line chart of price against date
type Chart struct {
	Title    string
	Width    float64
	Height   float64
	Pad      float64
	Points   []ChartPoint
	Polyline string

	MinPrice string
	MaxPrice string
	FromDate string
	ToDate   string
}

// Bottom is the y of the date axis
func (c *Chart) Bottom() float64 { return c.Height - c.Pad }

// Right is the x end of the date axis
func (c *Chart) Right() float64 { return c.Width - c.Pad }

// NewChart lays out a series already sorted by date, nil for no data
func NewChart(ticker string, series pulse.PriceSeries) *Chart {
	if len(series) == 0 {
		return nil
	}
	lo, hi := series.Bounds()
	first, last := series.Span()
	span := last.Sub(first)
	n := len(series)

	c := &Chart{
		Title:  pulse.DisplayTicker(ticker) + " Price History",
		Width:  chartWidth,
		Height: chartHeight,
		Pad:    chartPad,

		MinPrice: formatPrice(lo),
		MaxPrice: formatPrice(hi),
		FromDate: first.Format(dateLayout),
		ToDate:   last.Format(dateLayout),
	}
	plotW := chartWidth - 2*chartPad
	plotH := chartHeight - 2*chartPad
	vertices := make([]string, 0, n)
	for i, p := range series {
		fx := 0.5
		switch {
		case span > 0:
			fx = float64(p.Date.Sub(first)) / float64(span)
		case n > 1:
			fx = float64(i) / float64(n-1)
		}
		fy := 0.5
		if hi > lo {
			fy = (p.Price - lo) / (hi - lo)
		}
		pt := ChartPoint{
			X:     chartPad + fx*plotW,
			Y:     chartHeight - chartPad - fy*plotH,
			Date:  p.Date.Format(dateLayout),
			Price: formatPrice(p.Price),
		}
		c.Points = append(c.Points, pt)
		vertices = append(vertices, fmt.Sprintf("%.1f,%.1f", pt.X, pt.Y))
	}
	c.Polyline = strings.Join(vertices, " ")
	return c
}

func formatPrice(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
