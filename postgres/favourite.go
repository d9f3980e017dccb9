package postgres

import (
	"context"
	"movieapi/catalog"
	"time"

	"gorm.io/gorm"
)

// FavouriteModel represents the database model for favourites
type FavouriteModel struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    string    `gorm:"column:user_id;not null"`
	MovieID   int64     `gorm:"column:movie_id;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (FavouriteModel) TableName() string {
	return "favourites"
}

// FavouriteRepository implements favourite.Repository
type FavouriteRepository struct {
	db *gorm.DB
}

func NewFavouriteRepository(db *gorm.DB) *FavouriteRepository {
	return &FavouriteRepository{db: db}
}

func (r *FavouriteRepository) ListFavourites(ctx context.Context, userID string, offset, limit int) ([]catalog.Entry, error) {
	var models []MovieModel
	err := r.db.WithContext(ctx).
		Table("movies").
		Select("movies.*").
		Joins("JOIN favourites ON favourites.movie_id = movies.id").
		Where("favourites.user_id = ?", userID).
		Order("favourites.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&models).Error
	if err != nil {
		return nil, err
	}

	entries := make([]catalog.Entry, len(models))
	for i, model := range models {
		entries[i] = model.entry()
	}
	return entries, nil
}

// AddFavourite links only movies that exist; the insert is a no-op for
// duplicates and unknown movies alike.
func (r *FavouriteRepository) AddFavourite(ctx context.Context, userID string, movieID int64) (bool, error) {
	const sql = `
INSERT INTO favourites (user_id, movie_id, created_at)
SELECT ?, id, NOW() FROM movies WHERE id = ?
ON CONFLICT (user_id, movie_id) DO NOTHING`

	res := r.db.WithContext(ctx).Exec(sql, userID, movieID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *FavouriteRepository) RemoveFavourite(ctx context.Context, userID string, movieID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&FavouriteModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
