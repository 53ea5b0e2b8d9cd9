package store

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

func TestBuildSearchQueryNoFilters(t *testing.T) {
	query, args := buildSearchQuery(SearchOptions{}, 10)

	assert.NotContains(t, query, "WHERE")
	assert.NotContains(t, query, "HAVING")
	assert.Contains(t, query, "GROUP BY properties.id")
	assert.Contains(t, query, "ORDER BY properties.cost_per_night")
	assert.Contains(t, query, "LIMIT $1")
	assert.Equal(t, []any{10}, args)
}

func TestBuildSearchQueryAllFilters(t *testing.T) {
	opts := SearchOptions{
		City:             "Vancouver",
		MinPricePerNight: f64(100),
		MaxPricePerNight: f64(250),
		MinRating:        f64(4),
	}
	query, args := buildSearchQuery(opts, 20)

	assert.Contains(t, query, "WHERE properties.city LIKE $1")
	assert.Contains(t, query, "HAVING properties.cost_per_night >= $2")
	assert.Contains(t, query, "AND properties.cost_per_night <= $3")
	assert.Contains(t, query, "AND avg(property_reviews.rating) >= $4")
	assert.Contains(t, query, "LIMIT $5")

	require.Len(t, args, 5)
	assert.Equal(t, "%Vancouver%", args[0])
	assert.Equal(t, int64(10000), args[1], "min price must be bound in minor units")
	assert.Equal(t, int64(25000), args[2], "max price must be bound in minor units")
	assert.Equal(t, 4.0, args[3])
	assert.Equal(t, 20, args[4])
}

func TestBuildSearchQueryRatingOnlyUsesHaving(t *testing.T) {
	query, args := buildSearchQuery(SearchOptions{MinRating: f64(4)}, 10)

	assert.Contains(t, query, "HAVING avg(property_reviews.rating) >= $1")
	assert.NotContains(t, query, "AND avg(property_reviews.rating)")
	assert.Equal(t, []any{4.0, 10}, args)
}

func TestBuildSearchQueryMaxPriceWithoutMinUsesHaving(t *testing.T) {
	query, _ := buildSearchQuery(SearchOptions{MaxPricePerNight: f64(80)}, 10)

	// The first predicate after GROUP BY must say HAVING even when the
	// lower price bound is absent.
	assert.Contains(t, query, "HAVING properties.cost_per_night <= $1")
	assert.NotContains(t, query, "AND properties.cost_per_night <= $1")
}

// Every filter combination binds one parameter per present option plus
// one for the limit, and each placeholder index matches its argument's
// 1-based position.
func TestBuildSearchQueryPlaceholderPositions(t *testing.T) {
	for mask := 0; mask < 16; mask++ {
		var opts SearchOptions
		present := 0
		if mask&1 != 0 {
			opts.City = "Berlin"
			present++
		}
		if mask&2 != 0 {
			opts.MinPricePerNight = f64(50)
			present++
		}
		if mask&4 != 0 {
			opts.MaxPricePerNight = f64(300)
			present++
		}
		if mask&8 != 0 {
			opts.MinRating = f64(3)
			present++
		}

		query, args := buildSearchQuery(opts, 10)
		require.Len(t, args, present+1, "mask %04b", mask)

		seen := map[int]bool{}
		for _, m := range placeholderRe.FindAllStringSubmatch(query, -1) {
			n, err := strconv.Atoi(m[1])
			require.NoError(t, err)
			seen[n] = true
		}
		require.Len(t, seen, len(args), "mask %04b: one placeholder per argument", mask)
		for i := 1; i <= len(args); i++ {
			assert.True(t, seen[i], "mask %04b: missing placeholder $%d", mask, i)
		}
	}
}

func TestBuildInsertQueryColumnOrder(t *testing.T) {
	query, args, err := buildInsertQuery(NewProperty{City: "Lagos", CostPerNight: 5000})
	require.NoError(t, err)

	// Columns follow the whitelist's declared order (schema order), one
	// placeholder per column and no trailing separator.
	assert.Equal(t, "INSERT INTO properties (cost_per_night, city) VALUES ($1, $2) RETURNING id", query)
	assert.Equal(t, []any{int64(5000), "Lagos"}, args)
}

func TestBuildInsertQueryAllColumns(t *testing.T) {
	np := NewProperty{
		OwnerID:           7,
		Title:             "Seaside flat",
		Description:       "two rooms by the water",
		ThumbnailPhotoURL: "https://img.example/t.jpg",
		CoverPhotoURL:     "https://img.example/c.jpg",
		CostPerNight:      9300,
		ParkingSpaces:     1,
		NumberOfBathrooms: 1,
		NumberOfBedrooms:  2,
		Country:           "Canada",
		Street:            "12 Harbour Rd",
		City:              "Halifax",
		Province:          "Nova Scotia",
		PostCode:          "B3H 1A1",
	}
	query, args, err := buildInsertQuery(np)
	require.NoError(t, err)

	require.Len(t, args, 14)
	assert.Contains(t, query, "INSERT INTO properties (owner_id, title, description, "+
		"thumbnail_photo_url, cover_photo_url, cost_per_night, parking_spaces, "+
		"number_of_bathrooms, number_of_bedrooms, country, street, city, province, post_code)")
	assert.Contains(t, query, "VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)")
	assert.True(t, strings.HasSuffix(query, "RETURNING id"))
}

func TestBuildInsertQueryEmpty(t *testing.T) {
	_, _, err := buildInsertQuery(NewProperty{})
	assert.ErrorIs(t, err, ErrNoColumns)
}

func propertyColumns() []string {
	return []string{
		"id", "owner_id", "title", "description",
		"thumbnail_photo_url", "cover_photo_url", "cost_per_night",
		"parking_spaces", "number_of_bathrooms", "number_of_bedrooms",
		"country", "street", "city", "province", "post_code",
		"average_rating",
	}
}

func TestPropertySearchScansRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	query, _ := buildSearchQuery(SearchOptions{City: "Lisbon"}, 10)
	rows := sqlmock.NewRows(propertyColumns()).
		AddRow(1, 4, "Old town loft", "bright", "t.jpg", "c.jpg", 8800,
			0, 1, 1, "Portugal", "Rua A 3", "Lisbon", "Lisboa", "1100", 4.2).
		AddRow(2, 5, "River flat", "quiet", "t2.jpg", "c2.jpg", 12100,
			1, 2, 2, "Portugal", "Rua B 9", "Lisbon", "Lisboa", "1200", 4.8)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("%Lisbon%", 10).
		WillReturnRows(rows)

	s := NewPropertyStore(db)
	got, err := s.Search(context.Background(), SearchOptions{City: "Lisbon"}, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(8800), got[0].CostPerNight)
	assert.Equal(t, 4.8, got[1].AverageRating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertySearchDefaultsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	query, _ := buildSearchQuery(SearchOptions{}, 10)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows(propertyColumns()))

	s := NewPropertyStore(db)
	got, err := s.Search(context.Background(), SearchOptions{}, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertySearchPropagatesError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

	s := NewPropertyStore(db)
	got, err := s.Search(context.Background(), SearchOptions{}, 10)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, assert.AnError, "failures must surface, not be swallowed")
}

func TestPropertyCreateReturnsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	np := NewProperty{OwnerID: 3, Title: "Cabin", CostPerNight: 4500, City: "Whistler"}
	query, args, err := buildInsertQuery(np)
	require.NoError(t, err)
	require.Equal(t, []any{int64(3), "Cabin", int64(4500), "Whistler"}, args)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(int64(3), "Cabin", int64(4500), "Whistler").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	s := NewPropertyStore(db)
	id, err := s.Create(context.Background(), np)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
