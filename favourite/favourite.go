package favourite

import "movieapi/errs"

// PageSize is the number of favourites returned per page.
const PageSize = 10

var (
	ErrUserRequired   = errs.Errorf(errs.EUNAUTHORIZED, "favourite: user id not found")
	ErrInvalidMovieID = errs.Errorf(errs.EINVALID, "favourite: invalid movie id")
)

// Offset translates a 1-based page into the number of favourites to skip.
// page <= 0 yields a zero or negative offset, which storage treats as none.
func Offset(page int) int {
	return (page - 1) * PageSize
}
