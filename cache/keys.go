package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key-Formate der Read-Seite. Die Namespaces müssen mit dem Invalidation-Gate
// im Ingest-Service übereinstimmen.
const (
	KeyAllSources    = "all_sources"
	KeyAllCategories = "all_categories"
	KeyAllAuthors    = "all_authors"

	SearchKeyPrefix = "articles_search_"
	SearchPattern   = SearchKeyPrefix + "*"
)

// SearchKey baut den Cache-Key für eine Artikelsuche aus dem vollständigen
// Filter-Struct: articles_search_<md5 der JSON-Kodierung>.
func SearchKey(filter interface{}) string {
	return SearchKeyPrefix + hashParams(filter)
}

// FeedKey baut den Cache-Key für den personalisierten Feed eines Benutzers.
func FeedKey(userID uint, filter interface{}) string {
	return fmt.Sprintf("user_feed_%d_%s", userID, hashParams(filter))
}

// DefaultFeedKey ist der Key für den Fallback-Feed ohne Präferenzen.
func DefaultFeedKey(userID uint, filter interface{}) string {
	return fmt.Sprintf("user_feed_%d_default_%s", userID, hashParams(filter))
}

// FeedPattern matcht alle Feed-Keys eines Benutzers (personalisiert und default).
func FeedPattern(userID uint) string {
	return fmt.Sprintf("user_feed_%d_*", userID)
}

// hashParams kodiert das Filter-Struct deterministisch als JSON und hasht es.
// Struct-Felder serialisieren in Deklarationsreihenfolge, damit ist der Key
// für identische Parameter stabil.
func hashParams(v interface{}) string {
	encoded, err := json.Marshal(v)
	if err != nil {
		encoded = []byte(fmt.Sprintf("%+v", v))
	}
	sum := md5.Sum(encoded)
	return hex.EncodeToString(sum[:])
}
