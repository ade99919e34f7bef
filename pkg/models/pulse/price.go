package pulse

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DefaultTicker = "BTC"
)

// PricePoint one price sample of a ticker
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

type PriceSeries []PricePoint

// Sorted returns a copy ordered ascending by date, equal dates keep input order
func (z PriceSeries) Sorted() PriceSeries {
	out := make(PriceSeries, len(z))
	copy(out, z)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Bounds returns min and max of prices
func (z PriceSeries) Bounds() (lo, hi float64) {
	for i, p := range z {
		if i == 0 || p.Price < lo {
			lo = p.Price
		}
		if i == 0 || p.Price > hi {
			hi = p.Price
		}
	}
	return
}

// Span returns the first and last date, the series must be sorted
func (z PriceSeries) Span() (first, last time.Time) {
	if len(z) > 0 {
		first, last = z[0].Date, z[len(z)-1].Date
	}
	return
}

// DisplayTicker upper-cases a ticker for display only
func DisplayTicker(s string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(s))
}
