package httpserver

import (
	"movieapi/errs"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterMovieRoutes(g *echo.Group) {
	g.GET("/movies/list", s.handlePopularMovies)
	g.GET("/movies/search", s.handleSearchMovies)
	g.GET("/movies/:movieId", s.handleMovieDetails)
	g.GET("/movies/:movieId/entry", s.handleMovieEntry)
}

// handlePopularMovies godoc
// @Summary Popular Movies
// @Description Popular movies, one upstream page at a time
// @Tags movies
// @Produce json
// @Param page query int false "Page (1-500), default 1"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Router /api/movies/list [get]
func (s *Server) handlePopularMovies(c echo.Context) error {
	if s.CatalogService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "catalog service not configured")
	}

	req := newPageRequest()
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	list, err := s.CatalogService.Popular(c.Request().Context(), req.Page)
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, list)
}

// handleSearchMovies godoc
// @Summary Search Movies
// @Description Search movies by title
// @Tags movies
// @Produce json
// @Param query query string true "Search query"
// @Param page query int false "Page (1-500), default 1"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Router /api/movies/search [get]
func (s *Server) handleSearchMovies(c echo.Context) error {
	if s.CatalogService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "catalog service not configured")
	}

	req := newSearchRequest()
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	list, err := s.CatalogService.Search(c.Request().Context(), req.Query, req.Page)
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, list)
}

func (s *Server) handleMovieDetails(c echo.Context) error {
	if s.CatalogService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "catalog service not configured")
	}

	var req MovieRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	movie, err := s.CatalogService.Details(c.Request().Context(), req.MovieID)
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, movie)
}

// handleMovieEntry returns the locally stored copy, whose id is the one
// the favourites routes take.
func (s *Server) handleMovieEntry(c echo.Context) error {
	if s.CatalogService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "catalog service not configured")
	}

	var req MovieRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	entry, err := s.CatalogService.LocalEntry(c.Request().Context(), req.MovieID)
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, entry)
}
