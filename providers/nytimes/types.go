// Package nytimes enthält die Logik für die Interaktion mit der
// New York Times Article Search API.
package nytimes

// SearchResponse ist die Top-Level-Struktur der Article-Search-Antwort.
type SearchResponse struct {
	Status   string `json:"status"`
	Response struct {
		Docs []RawDoc `json:"docs"`
	} `json:"response"`
}

// RawDoc repräsentiert ein einzelnes Dokument in der API-Antwort.
type RawDoc struct {
	ID       string `json:"_id"`
	WebURL   string `json:"web_url"`
	Snippet  string `json:"snippet"`
	Headline struct {
		Main string `json:"main"`
	} `json:"headline"`
	Byline struct {
		Original string `json:"original"`
	} `json:"byline"`
	PubDate       string `json:"pub_date"`
	NewsDesk      string `json:"news_desk"`
	LeadParagraph string `json:"lead_paragraph"`
	Multimedia    []struct {
		URL string `json:"url"`
	} `json:"multimedia"`
}
