package postgres

import (
	"context"
	"errors"
	"movieapi/catalog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MovieModel represents the database model for movies
type MovieModel struct {
	ID          int64     `gorm:"primaryKey"`
	ExternalID  string    `gorm:"column:external_id;not null;uniqueIndex"`
	Title       string    `gorm:"not null"`
	Synopsis    string    `gorm:"not null"`
	PosterPath  string    `gorm:"not null"`
	ReleaseDate string    `gorm:"not null"`
	Adult       bool      `gorm:"not null"`
	VoteAverage float64   `gorm:"not null"`
	VoteCount   int       `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (MovieModel) TableName() string {
	return "movies"
}

func (m MovieModel) entry() catalog.Entry {
	return catalog.Entry{
		ID:          m.ID,
		ExternalID:  m.ExternalID,
		Title:       m.Title,
		Synopsis:    m.Synopsis,
		PosterPath:  m.PosterPath,
		ReleaseDate: m.ReleaseDate,
		Adult:       m.Adult,
		VoteAverage: m.VoteAverage,
		VoteCount:   m.VoteCount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// MovieRepository implements catalog.Repository
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) FindByExternalID(ctx context.Context, externalID string) (catalog.Entry, error) {
	var model MovieModel
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return catalog.Entry{}, catalog.ErrEntryNotFound
	}
	if err != nil {
		return catalog.Entry{}, err
	}
	return model.entry(), nil
}

// Upsert inserts e or, when its external id is already stored, refreshes
// title and synopsis only. Concurrent upserts of one id converge on a
// single row.
func (r *MovieRepository) Upsert(ctx context.Context, e catalog.Entry) (catalog.Entry, error) {
	now := time.Now().UTC()
	model := MovieModel{
		ExternalID:  e.ExternalID,
		Title:       e.Title,
		Synopsis:    e.Synopsis,
		PosterPath:  e.PosterPath,
		ReleaseDate: e.ReleaseDate,
		Adult:       e.Adult,
		VoteAverage: e.VoteAverage,
		VoteCount:   e.VoteCount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "external_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"title", "synopsis", "updated_at"}),
			},
			clause.Returning{},
		).
		Create(&model).Error
	if err != nil {
		return catalog.Entry{}, err
	}
	return model.entry(), nil
}
