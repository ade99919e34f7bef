package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liut/cryptopulse/pkg/models/pulse"
)

func TestNewChart(t *testing.T) {
	assert.Nil(t, NewChart("btc", nil))

	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := pulse.PriceSeries{
		{Date: jan, Price: 40},
		{Date: jan.AddDate(0, 0, 15), Price: 45},
		{Date: jan.AddDate(0, 1, 0), Price: 50},
	}
	c := NewChart("btc", series)
	require.NotNil(t, c)
	assert.Equal(t, "BTC Price History", c.Title)
	require.Len(t, c.Points, 3)

	assert.Equal(t, chartPad, c.Points[0].X)
	assert.Equal(t, chartWidth-chartPad, c.Points[2].X)
	assert.Equal(t, c.Bottom(), c.Points[0].Y)
	assert.Equal(t, chartPad, c.Points[2].Y)
	assert.Less(t, c.Points[0].X, c.Points[1].X)
	assert.Equal(t, "40.00", c.MinPrice)
	assert.Equal(t, "50.00", c.MaxPrice)
	assert.Equal(t, "2024-01-01", c.FromDate)
	assert.Equal(t, "2024-02-01", c.ToDate)
	assert.Equal(t, "40.0,240.0 349.7,140.0 680.0,40.0", c.Polyline)
}

func TestNewChartFlat(t *testing.T) {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewChart("eth", pulse.PriceSeries{{Date: d, Price: 3}, {Date: d, Price: 3}})
	require.Len(t, c.Points, 2)
	assert.Equal(t, chartPad, c.Points[0].X)
	assert.Equal(t, chartWidth-chartPad, c.Points[1].X)
	assert.Equal(t, chartHeight/2, c.Points[0].Y)
}

func TestMarkdown(t *testing.T) {
	out := string(markdown("**bold** <b>raw</b> [x](javascript:alert(1))"))
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<b>")
	assert.NotContains(t, out, `href="javascript`)
}
