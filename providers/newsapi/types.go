// Package newsapi enthält die Logik für die Interaktion mit NewsAPI.org.
package newsapi

// EverythingResponse repräsentiert die JSON-Antwort des /everything-Endpunkts.
type EverythingResponse struct {
	Status       string       `json:"status"`
	TotalResults int          `json:"totalResults"`
	Articles     []RawArticle `json:"articles"`
}

// RawArticle repräsentiert einen einzelnen Artikel in der API-Antwort.
// NewsAPI.org liefert keine eigene Artikel-ID, die URL übernimmt diese Rolle.
type RawArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}
