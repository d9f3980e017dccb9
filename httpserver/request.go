package httpserver

import (
	"movieapi/errs"

	"github.com/labstack/echo/v4"
)

type PageRequest struct {
	Page int `query:"page" validate:"min=1,max=500"`
}

type SearchRequest struct {
	Query string `query:"query" validate:"required,notblank,max=500"`
	Page  int    `query:"page" validate:"min=1,max=500"`
}

type MovieRequest struct {
	MovieID string `param:"movieId" validate:"required,number,max=20"`
}

type FavouritePageRequest struct {
	Page int `query:"page" validate:"min=1"`
}

type FavouriteRequest struct {
	MovieID int64 `param:"movieId" validate:"min=1"`
}

func newPageRequest() PageRequest {
	return PageRequest{Page: 1}
}

func newSearchRequest() SearchRequest {
	return SearchRequest{Page: 1}
}

func newFavouritePageRequest() FavouritePageRequest {
	return FavouritePageRequest{Page: 1}
}

// bindRequest binds path and query parameters into req and validates it.
func bindRequest(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errs.Wrap(errs.EINVALID, err, "invalid request parameters")
	}
	return c.Validate(req)
}
