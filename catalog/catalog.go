package catalog

import (
	"movieapi/errs"
	"strconv"
	"time"
)

var (
	ErrInvalidPage      = errs.Errorf(errs.EINVALID, "catalog: page must be between 1 and 500")
	ErrEntryNotFound    = errs.Errorf(errs.ENOTFOUND, "catalog: movie not found")
	ErrMalformedPayload = errs.Errorf(errs.EUNAVAILABLE, "catalog: malformed upstream payload")
)

// MaxPage is the last page the upstream provider will serve.
const MaxPage = 500

// Entry is a locally persisted movie, keyed by the provider's ExternalID.
// ID is assigned on first persistence and is what favourites refer to.
type Entry struct {
	ID          int64     `json:"id"`
	ExternalID  string    `json:"externalId"`
	Title       string    `json:"title"`
	Synopsis    string    `json:"synopsis"`
	PosterPath  string    `json:"posterPath"`
	ReleaseDate string    `json:"releaseDate"`
	Adult       bool      `json:"adult"`
	VoteAverage float64   `json:"voteAverage"`
	VoteCount   int       `json:"voteCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Movie is a single record of the upstream payload.
type Movie struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Overview    *string  `json:"overview,omitempty"`
	PosterPath  *string  `json:"poster_path,omitempty"`  // nolint: tagliatelle
	ReleaseDate *string  `json:"release_date,omitempty"` // nolint: tagliatelle
	Popularity  *float64 `json:"popularity,omitempty"`
	Adult       bool     `json:"adult"`
	VoteAverage float64  `json:"vote_average"` // nolint: tagliatelle
	VoteCount   int      `json:"vote_count"`   // nolint: tagliatelle
}

// MovieList is the paged upstream payload shared by popular and search.
type MovieList struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`   // nolint: tagliatelle
	TotalResults int     `json:"total_results"` // nolint: tagliatelle
}

func (m Movie) ExternalID() string {
	return strconv.FormatInt(m.ID, 10)
}

func (m Movie) Validate() error {
	if m.ID <= 0 {
		return ErrMalformedPayload
	}
	if m.VoteAverage < 0 || m.VoteAverage > 10 {
		return ErrMalformedPayload
	}
	if m.VoteCount < 0 {
		return ErrMalformedPayload
	}
	return nil
}

func (l MovieList) Validate() error {
	for _, m := range l.Results {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Entry maps an upstream record to the shape the repository persists.
func (m Movie) Entry() Entry {
	return Entry{
		ExternalID:  m.ExternalID(),
		Title:       m.Title,
		Synopsis:    deref(m.Overview),
		PosterPath:  deref(m.PosterPath),
		ReleaseDate: deref(m.ReleaseDate),
		Adult:       m.Adult,
		VoteAverage: m.VoteAverage,
		VoteCount:   m.VoteCount,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ValidPage reports whether page is within the range the provider serves.
func ValidPage(page int) bool {
	return page >= 1 && page <= MaxPage
}
