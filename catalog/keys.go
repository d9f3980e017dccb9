package catalog

import (
	"strconv"
	"strings"
	"time"
)

// CacheTTL applies uniformly to every catalog query kind.
const CacheTTL = time.Hour

// Operation names, used in cache keys, logs and metric labels.
const (
	OpPopular = "popular"
	OpDetails = "details"
	OpSearch  = "search"
)

// PopularKey is MovieList_Page_{page}.
func PopularKey(page int) string {
	return "MovieList_Page_" + strconv.Itoa(page)
}

// DetailsKey is MovieDetails_{externalID}.
func DetailsKey(externalID string) string {
	return "MovieDetails_" + externalID
}

// SearchKey is MovieSearch_{query}_Page_{page} over the normalized query.
func SearchKey(query string, page int) string {
	return "MovieSearch_" + NormalizeQuery(query) + "_Page_" + strconv.Itoa(page)
}

// NormalizeQuery lower-cases query and collapses whitespace runs so that
// equivalent searches share one cache entry.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}
