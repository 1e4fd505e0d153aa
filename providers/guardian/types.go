// Package guardian enthält die Logik für die Interaktion mit der
// Guardian Content API.
package guardian

// SearchResponse ist die Top-Level-Struktur der Guardian-API-Antwort.
type SearchResponse struct {
	Response struct {
		Status  string      `json:"status"`
		Results []RawResult `json:"results"`
	} `json:"response"`
}

// RawResult repräsentiert ein einzelnes Suchergebnis. Byline, Thumbnail und
// Volltext liegen unter dem per show-fields angeforderten fields-Objekt.
type RawResult struct {
	ID                 string `json:"id"`
	SectionName        string `json:"sectionName"`
	WebPublicationDate string `json:"webPublicationDate"`
	WebTitle           string `json:"webTitle"`
	WebURL             string `json:"webUrl"`
	Fields             struct {
		Byline    string `json:"byline"`
		Thumbnail string `json:"thumbnail"`
		BodyText  string `json:"bodyText"`
	} `json:"fields"`
}
