package favourite

import (
	"context"
	"movieapi/catalog"
	"movieapi/errs"
	"strings"
)

type Service interface {
	List(ctx context.Context, userID string, page int) ([]catalog.Entry, error)
	Add(ctx context.Context, userID string, movieID int64) (bool, error)
	Remove(ctx context.Context, userID string, movieID int64) (bool, error)
}

type Repository interface {
	// ListFavourites returns entries ordered by favourite creation, oldest first.
	ListFavourites(ctx context.Context, userID string, offset, limit int) ([]catalog.Entry, error)
	// AddFavourite reports false when the link exists or the movie does not.
	AddFavourite(ctx context.Context, userID string, movieID int64) (bool, error)
	// RemoveFavourite reports false when there was no link to remove.
	RemoveFavourite(ctx context.Context, userID string, movieID int64) (bool, error)
}

type Usecase struct {
	r Repository
}

func NewUsecase(r Repository) *Usecase {
	return &Usecase{r: r}
}

// List does not clamp page; callers validate it.
func (uc *Usecase) List(ctx context.Context, userID string, page int) ([]catalog.Entry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserRequired
	}
	entries, err := uc.r.ListFavourites(ctx, userID, Offset(page), PageSize)
	if err != nil {
		return nil, errs.Wrap(errs.EINTERNAL, err, "favourite: list failed")
	}
	if entries == nil {
		entries = []catalog.Entry{}
	}
	return entries, nil
}

func (uc *Usecase) Add(ctx context.Context, userID string, movieID int64) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, ErrUserRequired
	}
	if movieID <= 0 {
		return false, ErrInvalidMovieID
	}
	added, err := uc.r.AddFavourite(ctx, userID, movieID)
	if err != nil {
		return false, errs.Wrap(errs.EINTERNAL, err, "favourite: add failed")
	}
	return added, nil
}

func (uc *Usecase) Remove(ctx context.Context, userID string, movieID int64) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, ErrUserRequired
	}
	if movieID <= 0 {
		return false, ErrInvalidMovieID
	}
	removed, err := uc.r.RemoveFavourite(ctx, userID, movieID)
	if err != nil {
		return false, errs.Wrap(errs.EINTERNAL, err, "favourite: remove failed")
	}
	return removed, nil
}
