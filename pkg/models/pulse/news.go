package pulse

type NewsArticle struct {
	Title         string `json:"title"`
	PublishedDate string `json:"published_date"`
	Summary       string `json:"summary"`
	URL           string `json:"url"`
}

type NewsArticles []NewsArticle
