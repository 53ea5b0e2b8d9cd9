package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Property mirrors the 'properties' table plus the averaged review rating
// computed by Search. cost_per_night is stored in minor currency units
// (cents).
type Property struct {
	ID                int64   `json:"id"`
	OwnerID           int64   `json:"owner_id"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	ThumbnailPhotoURL string  `json:"thumbnail_photo_url"`
	CoverPhotoURL     string  `json:"cover_photo_url"`
	CostPerNight      int64   `json:"cost_per_night"`
	ParkingSpaces     int32   `json:"parking_spaces"`
	NumberOfBathrooms int32   `json:"number_of_bathrooms"`
	NumberOfBedrooms  int32   `json:"number_of_bedrooms"`
	Country           string  `json:"country"`
	Street            string  `json:"street"`
	City              string  `json:"city"`
	Province          string  `json:"province"`
	PostCode          string  `json:"post_code"`
	AverageRating     float64 `json:"average_rating"`
}

// SearchOptions carries the optional property filters. Nil pointers and
// the empty city string mean "filter not supplied". Prices are given in
// major currency units (dollars) and converted to minor units before
// binding.
type SearchOptions struct {
	City             string
	MinPricePerNight *float64
	MaxPricePerNight *float64
	MinRating        *float64
}

type PropertyStore struct{ DB *sql.DB }

func NewPropertyStore(db *sql.DB) *PropertyStore { return &PropertyStore{DB: db} }

const searchSelect = `SELECT properties.id, properties.owner_id, properties.title, properties.description,
       properties.thumbnail_photo_url, properties.cover_photo_url, properties.cost_per_night,
       properties.parking_spaces, properties.number_of_bathrooms, properties.number_of_bedrooms,
       properties.country, properties.street, properties.city, properties.province, properties.post_code,
       avg(property_reviews.rating) AS average_rating
FROM properties
JOIN property_reviews ON property_reviews.property_id = properties.id`

// buildSearchQuery assembles the filtered property statement and its
// positional arguments. Each placeholder index equals the argument's
// 1-based position at the time it is appended.
//
// The city filter is a plain WHERE clause; everything after the mandatory
// GROUP BY goes into a HAVING chain because the rating filter applies to
// an aggregate. Only the first predicate after GROUP BY uses the HAVING
// keyword, every later one chains with AND, regardless of which filters
// are present.
func buildSearchQuery(opts SearchOptions, limit int) (string, []any) {
	query := searchSelect
	args := []any{}

	if opts.City != "" {
		args = append(args, "%"+opts.City+"%")
		query += fmt.Sprintf("\nWHERE properties.city LIKE $%d", len(args))
	}

	query += "\nGROUP BY properties.id"

	first := true
	appendHaving := func(cond string, arg any) {
		args = append(args, arg)
		kw := " AND"
		if first {
			kw = "\nHAVING"
			first = false
		}
		query += fmt.Sprintf("%s "+cond, kw, len(args))
	}

	if opts.MinPricePerNight != nil {
		appendHaving("properties.cost_per_night >= $%d", toMinorUnits(*opts.MinPricePerNight))
	}
	if opts.MaxPricePerNight != nil {
		appendHaving("properties.cost_per_night <= $%d", toMinorUnits(*opts.MaxPricePerNight))
	}
	if opts.MinRating != nil {
		appendHaving("avg(property_reviews.rating) >= $%d", *opts.MinRating)
	}

	args = append(args, limit)
	query += fmt.Sprintf("\nORDER BY properties.cost_per_night\nLIMIT $%d", len(args))
	return query, args
}

// toMinorUnits converts a major-unit price (dollars) to minor units
// (cents) for storage-side comparison.
func toMinorUnits(major float64) int64 {
	return int64(major * 100)
}

// Search returns properties matching opts, ordered by cost_per_night
// ascending. limit values below 1 fall back to 10.
func (s *PropertyStore) Search(ctx context.Context, opts SearchOptions, limit int) ([]Property, error) {
	if limit < 1 {
		limit = 10
	}
	query, args := buildSearchQuery(opts, limit)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}
	defer rows.Close()

	out := make([]Property, 0, limit)
	for rows.Next() {
		var p Property
		if err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Title, &p.Description,
			&p.ThumbnailPhotoURL, &p.CoverPhotoURL, &p.CostPerNight,
			&p.ParkingSpaces, &p.NumberOfBathrooms, &p.NumberOfBedrooms,
			&p.Country, &p.Street, &p.City, &p.Province, &p.PostCode,
			&p.AverageRating,
		); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}
	return out, nil
}

// NewProperty is the statically declared column whitelist for property
// inserts. Only set fields (non-zero) are emitted, in declared order, so
// the column names that reach the SQL text are always ours, never the
// caller's.
type NewProperty struct {
	OwnerID           int64
	Title             string
	Description       string
	ThumbnailPhotoURL string
	CoverPhotoURL     string
	CostPerNight      int64 // minor units
	ParkingSpaces     int32
	NumberOfBathrooms int32
	NumberOfBedrooms  int32
	Country           string
	Street            string
	City              string
	Province          string
	PostCode          string
}

// ErrNoColumns is returned when a property insert has no fields set.
var ErrNoColumns = errors.New("no columns to insert")

// columns lists the set fields in declared order.
func (p NewProperty) columns() (names []string, values []any) {
	add := func(name string, value any, set bool) {
		if set {
			names = append(names, name)
			values = append(values, value)
		}
	}
	add("owner_id", p.OwnerID, p.OwnerID != 0)
	add("title", p.Title, p.Title != "")
	add("description", p.Description, p.Description != "")
	add("thumbnail_photo_url", p.ThumbnailPhotoURL, p.ThumbnailPhotoURL != "")
	add("cover_photo_url", p.CoverPhotoURL, p.CoverPhotoURL != "")
	add("cost_per_night", p.CostPerNight, p.CostPerNight != 0)
	add("parking_spaces", p.ParkingSpaces, p.ParkingSpaces != 0)
	add("number_of_bathrooms", p.NumberOfBathrooms, p.NumberOfBathrooms != 0)
	add("number_of_bedrooms", p.NumberOfBedrooms, p.NumberOfBedrooms != 0)
	add("country", p.Country, p.Country != "")
	add("street", p.Street, p.Street != "")
	add("city", p.City, p.City != "")
	add("province", p.Province, p.Province != "")
	add("post_code", p.PostCode, p.PostCode != "")
	return names, values
}

// buildInsertQuery assembles the dynamic-column INSERT for a property.
// One placeholder per set column, bound in the same order the columns are
// listed; the statement asks the database for the generated id.
func buildInsertQuery(p NewProperty) (string, []any, error) {
	names, values := p.columns()
	if len(names) == 0 {
		return "", nil, ErrNoColumns
	}
	query := "INSERT INTO properties ("
	for i, name := range names {
		if i > 0 {
			query += ", "
		}
		query += name
	}
	query += ") VALUES ("
	for i := range values {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("$%d", i+1)
	}
	query += ") RETURNING id"
	return query, values, nil
}

// Create inserts a property and returns its generated id.
func (s *PropertyStore) Create(ctx context.Context, p NewProperty) (int64, error) {
	query, args, err := buildInsertQuery(p)
	if err != nil {
		return 0, err
	}
	var id int64
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert property: %w", err)
	}
	return id, nil
}
