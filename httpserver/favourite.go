package httpserver

import (
	"movieapi/errs"
	"movieapi/favourite"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	addFavouriteFailed    = "Failed to add to favourites."
	removeFavouriteFailed = "Failed to remove from favourites."
)

func (s *Server) RegisterFavouriteRoutes(g *echo.Group) {
	g.GET("/favourites", s.handleListFavourites)
	g.POST("/favourites/:movieId", s.handleAddFavourite)
	g.DELETE("/favourites/:movieId", s.handleRemoveFavourite)
}

// handleListFavourites godoc
// @Summary List Favourites
// @Description The caller's favourites, oldest first, ten per page
// @Tags favourites
// @Produce json
// @Param page query int false "Page, default 1"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Router /api/favourites [get]
func (s *Server) handleListFavourites(c echo.Context) error {
	if s.FavouriteService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "favourite service not configured")
	}

	req := newFavouritePageRequest()
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	entries, err := s.FavouriteService.List(c.Request().Context(), userID(c), req.Page)
	if err != nil {
		return err
	}

	return writePagedList(c, http.StatusOK, entries, req.Page, favourite.PageSize)
}

func (s *Server) handleAddFavourite(c echo.Context) error {
	if s.FavouriteService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "favourite service not configured")
	}

	var req FavouriteRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	added, err := s.FavouriteService.Add(c.Request().Context(), userID(c), req.MovieID)
	if err != nil {
		return err
	}
	if !added {
		return writeError(c, http.StatusBadRequest, addFavouriteFailed, nil)
	}

	return writeSuccess(c, http.StatusCreated, nil)
}

func (s *Server) handleRemoveFavourite(c echo.Context) error {
	if s.FavouriteService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "favourite service not configured")
	}

	var req FavouriteRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	removed, err := s.FavouriteService.Remove(c.Request().Context(), userID(c), req.MovieID)
	if err != nil {
		return err
	}
	if !removed {
		return writeError(c, http.StatusBadRequest, removeFavouriteFailed, nil)
	}

	return writeSuccess(c, http.StatusOK, nil)
}
