// nolint: funlen
package catalog_test

import (
	"context"
	"errors"
	"movieapi/catalog"
	"movieapi/errs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Popular(ctx context.Context, page int) (catalog.MovieList, []byte, error) {
	args := m.Called(ctx, page)
	return args.Get(0).(catalog.MovieList), bytesArg(args, 1), args.Error(2)
}

func (m *MockClient) Details(ctx context.Context, externalID string) (catalog.Movie, []byte, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(catalog.Movie), bytesArg(args, 1), args.Error(2)
}

func (m *MockClient) Search(ctx context.Context, query string, page int) (catalog.MovieList, []byte, error) {
	args := m.Called(ctx, query, page)
	return args.Get(0).(catalog.MovieList), bytesArg(args, 1), args.Error(2)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByExternalID(ctx context.Context, externalID string) (catalog.Entry, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(catalog.Entry), args.Error(1)
}

func (m *MockRepository) Upsert(ctx context.Context, e catalog.Entry) (catalog.Entry, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(catalog.Entry), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, bool) {
	args := m.Called(ctx, key)
	return bytesArg(args, 0), args.Bool(1)
}

func (m *MockCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) bool {
	args := m.Called(ctx, key, payload, ttl)
	return args.Bool(0)
}

func bytesArg(args mock.Arguments, i int) []byte {
	if b, ok := args.Get(i).([]byte); ok {
		return b
	}
	return nil
}

func strptr(s string) *string { return &s }

const batmanPayload = `{"page":1,"results":[` +
	`{"id":268,"title":"Batman","overview":"The Dark Knight of Gotham City.","adult":false,"vote_average":7.2,"vote_count":7500},` +
	`{"id":272,"title":"Batman Begins","overview":"Driven by tragedy.","adult":false,"vote_average":7.7,"vote_count":21000}` +
	`],"total_pages":1,"total_results":2}`

func batmanList() catalog.MovieList {
	return catalog.MovieList{
		Page: 1,
		Results: []catalog.Movie{
			{ID: 268, Title: "Batman", Overview: strptr("The Dark Knight of Gotham City."), VoteAverage: 7.2, VoteCount: 7500},
			{ID: 272, Title: "Batman Begins", Overview: strptr("Driven by tragedy."), VoteAverage: 7.7, VoteCount: 21000},
		},
		TotalPages:   1,
		TotalResults: 2,
	}
}

type fixture struct {
	client *MockClient
	repo   *MockRepository
	cache  *MockCache
	uc     *catalog.Usecase
}

func newFixture() fixture {
	f := fixture{
		client: new(MockClient),
		repo:   new(MockRepository),
		cache:  new(MockCache),
	}
	f.uc = catalog.NewUsecase(f.client, f.repo, f.cache)
	return f
}

func (f fixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.client.AssertExpectations(t)
	f.repo.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestSearch(t *testing.T) {
	t.Run("should fetch, reconcile and cache on empty cache", func(t *testing.T) {
		f := newFixture()
		raw := []byte(batmanPayload)
		list := batmanList()

		f.cache.On("Get", mock.Anything, "MovieSearch_batman_Page_1").Return(nil, false).Once()
		f.client.On("Search", mock.Anything, "batman", 1).Return(list, raw, nil).Once()
		f.repo.On("Upsert", mock.Anything, list.Results[0].Entry()).Return(catalog.Entry{ID: 1}, nil).Once()
		f.repo.On("Upsert", mock.Anything, list.Results[1].Entry()).Return(catalog.Entry{ID: 2}, nil).Once()
		f.cache.On("Set", mock.Anything, "MovieSearch_batman_Page_1", raw, time.Hour).Return(true).Once()

		result, err := f.uc.Search(context.Background(), "batman", 1)

		require.NoError(t, err)
		assert.Equal(t, list, result)
		f.assertExpectations(t)
	})

	t.Run("should serve cache hit without upstream call or repository write", func(t *testing.T) {
		f := newFixture()

		f.cache.On("Get", mock.Anything, "MovieSearch_batman_Page_1").Return([]byte(batmanPayload), true).Once()

		result, err := f.uc.Search(context.Background(), "  Batman ", 1)

		require.NoError(t, err)
		assert.Equal(t, batmanList(), result)
		f.client.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
		f.repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("should cache and return empty result set", func(t *testing.T) {
		f := newFixture()
		raw := []byte(`{"page":1,"results":[],"total_pages":0,"total_results":0}`)
		empty := catalog.MovieList{Page: 1, Results: []catalog.Movie{}}

		f.cache.On("Get", mock.Anything, "MovieSearch_zzzz_Page_1").Return(nil, false).Once()
		f.client.On("Search", mock.Anything, "zzzz", 1).Return(empty, raw, nil).Once()
		f.cache.On("Set", mock.Anything, "MovieSearch_zzzz_Page_1", raw, catalog.CacheTTL).Return(true).Once()

		result, err := f.uc.Search(context.Background(), "zzzz", 1)

		require.NoError(t, err)
		assert.NotNil(t, result.Results)
		assert.Empty(t, result.Results)
		f.repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("should still return and cache when reconciliation fails", func(t *testing.T) {
		f := newFixture()
		raw := []byte(batmanPayload)
		list := batmanList()

		f.cache.On("Get", mock.Anything, "MovieSearch_batman_Page_1").Return(nil, false).Once()
		f.client.On("Search", mock.Anything, "batman", 1).Return(list, raw, nil).Once()
		f.repo.On("Upsert", mock.Anything, mock.Anything).Return(catalog.Entry{}, errors.New("connection reset")).Twice()
		f.cache.On("Set", mock.Anything, "MovieSearch_batman_Page_1", raw, time.Hour).Return(true).Once()

		result, err := f.uc.Search(context.Background(), "batman", 1)

		require.NoError(t, err)
		assert.Equal(t, list, result)
		f.assertExpectations(t)
	})
}

func TestDetails(t *testing.T) {
	t.Run("should report upstream failure without cache or repository write", func(t *testing.T) {
		f := newFixture()
		upstreamErr := errs.Errorf(errs.EUNAVAILABLE, "catalog: upstream details returned status 500")

		f.cache.On("Get", mock.Anything, "MovieDetails_999").Return(nil, false).Once()
		f.client.On("Details", mock.Anything, "999").Return(catalog.Movie{}, nil, upstreamErr).Once()

		_, err := f.uc.Details(context.Background(), "999")

		require.Error(t, err)
		assert.True(t, catalog.IsUpstreamUnavailable(err))
		f.repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("should reconcile the single details record", func(t *testing.T) {
		f := newFixture()
		movie := catalog.Movie{ID: 550, Title: "Fight Club", Overview: strptr("An insomniac office worker."), VoteAverage: 8.4, VoteCount: 27000}
		raw := []byte(`{"id":550,"title":"Fight Club","overview":"An insomniac office worker.","adult":false,"vote_average":8.4,"vote_count":27000}`)

		f.cache.On("Get", mock.Anything, "MovieDetails_550").Return(nil, false).Once()
		f.client.On("Details", mock.Anything, "550").Return(movie, raw, nil).Once()
		f.repo.On("Upsert", mock.Anything, movie.Entry()).Return(catalog.Entry{ID: 10}, nil).Once()
		f.cache.On("Set", mock.Anything, "MovieDetails_550", raw, time.Hour).Return(true).Once()

		result, err := f.uc.Details(context.Background(), "550")

		require.NoError(t, err)
		assert.Equal(t, movie, result)
		f.assertExpectations(t)
	})

	t.Run("should refetch when cached value cannot be decoded", func(t *testing.T) {
		f := newFixture()
		movie := catalog.Movie{ID: 550, Title: "Fight Club"}
		raw := []byte(`{"id":550,"title":"Fight Club","adult":false,"vote_average":0,"vote_count":0}`)

		f.cache.On("Get", mock.Anything, "MovieDetails_550").Return([]byte("{not json"), true).Once()
		f.client.On("Details", mock.Anything, "550").Return(movie, raw, nil).Once()
		f.repo.On("Upsert", mock.Anything, movie.Entry()).Return(catalog.Entry{ID: 10}, nil).Once()
		f.cache.On("Set", mock.Anything, "MovieDetails_550", raw, time.Hour).Return(true).Once()

		result, err := f.uc.Details(context.Background(), "550")

		require.NoError(t, err)
		assert.Equal(t, movie, result)
		f.assertExpectations(t)
	})
}

func TestPopular(t *testing.T) {
	t.Run("should return fetched value when cache write fails", func(t *testing.T) {
		f := newFixture()
		raw := []byte(batmanPayload)
		list := batmanList()

		f.cache.On("Get", mock.Anything, "MovieList_Page_2").Return(nil, false).Once()
		f.client.On("Popular", mock.Anything, 2).Return(list, raw, nil).Once()
		f.repo.On("Upsert", mock.Anything, mock.Anything).Return(catalog.Entry{ID: 1}, nil).Twice()
		f.cache.On("Set", mock.Anything, "MovieList_Page_2", raw, time.Hour).Return(false).Once()

		result, err := f.uc.Popular(context.Background(), 2)

		require.NoError(t, err)
		assert.Equal(t, list, result)
		f.assertExpectations(t)
	})

	t.Run("should complete side effects after caller cancels", func(t *testing.T) {
		f := newFixture()
		raw := []byte(batmanPayload)
		list := batmanList()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		live := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })

		f.cache.On("Get", mock.Anything, "MovieList_Page_1").Return(nil, false).Once()
		f.client.On("Popular", live, 1).Return(list, raw, nil).Once()
		f.repo.On("Upsert", live, mock.Anything).Return(catalog.Entry{ID: 1}, nil).Twice()
		f.cache.On("Set", live, "MovieList_Page_1", raw, time.Hour).Return(true).Once()

		_, err := f.uc.Popular(ctx, 1)

		require.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("hit returns most recently stored value", func(t *testing.T) {
		f := newFixture()
		stored := []byte(`{"page":3,"results":[{"id":1,"title":"Stored","adult":false,"vote_average":5,"vote_count":1}],"total_pages":9,"total_results":90}`)

		f.cache.On("Get", mock.Anything, "MovieList_Page_3").Return(stored, true).Times(3)

		for i := 0; i < 3; i++ {
			result, err := f.uc.Popular(context.Background(), 3)
			require.NoError(t, err)
			assert.Equal(t, "Stored", result.Results[0].Title)
		}
		f.client.AssertNumberOfCalls(t, "Popular", 0)
		f.assertExpectations(t)
	})
}

func TestLocalEntry(t *testing.T) {
	f := newFixture()
	entry := catalog.Entry{ID: 7, ExternalID: "268", Title: "Batman"}

	f.repo.On("FindByExternalID", mock.Anything, "268").Return(entry, nil).Once()
	f.repo.On("FindByExternalID", mock.Anything, "1").Return(catalog.Entry{}, catalog.ErrEntryNotFound).Once()

	got, err := f.uc.LocalEntry(context.Background(), "268")
	require.NoError(t, err)
	assert.Equal(t, entry, got)

	_, err = f.uc.LocalEntry(context.Background(), "1")
	assert.Equal(t, catalog.ErrEntryNotFound, err)
	f.assertExpectations(t)
}
