package web

import (
	"html/template"

	"github.com/russross/blackfriday/v2"
)

const mdFlags = blackfriday.CommonHTMLFlags | blackfriday.SkipHTML | blackfriday.Safelink |
	blackfriday.HrefTargetBlank | blackfriday.NofollowLinks | blackfriday.NoreferrerLinks

// markdown renders text from the backend, raw html in it is dropped
func markdown(s string) template.HTML {
	r := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{Flags: mdFlags})
	out := blackfriday.Run([]byte(s),
		blackfriday.WithRenderer(r),
		blackfriday.WithExtensions(blackfriday.CommonExtensions),
	)
	return template.HTML(out) //nolint:gosec
}
