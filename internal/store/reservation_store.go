package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// GuestReservation is one row of a guest's upcoming-stays listing: the
// reservation dates joined with the reserved property and its averaged
// review rating.
type GuestReservation struct {
	ReservationID int64     `json:"reservation_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Property      Property  `json:"property"`
}

type ReservationStore struct{ DB *sql.DB }

func NewReservationStore(db *sql.DB) *ReservationStore { return &ReservationStore{DB: db} }

const guestReservationsQuery = `SELECT reservations.id, reservations.start_date, reservations.end_date,
       properties.id, properties.owner_id, properties.title, properties.description,
       properties.thumbnail_photo_url, properties.cover_photo_url, properties.cost_per_night,
       properties.parking_spaces, properties.number_of_bathrooms, properties.number_of_bedrooms,
       properties.country, properties.street, properties.city, properties.province, properties.post_code,
       avg(property_reviews.rating) AS average_rating
FROM reservations
JOIN properties ON reservations.property_id = properties.id
JOIN property_reviews ON property_reviews.property_id = properties.id
WHERE reservations.guest_id = $1
GROUP BY properties.id, reservations.id
ORDER BY reservations.start_date
LIMIT $2`

// ListForGuest returns every reservation for the guest, ordered by start
// date ascending and capped at limit. limit values below 1 fall back
// to 10. An empty slice means the guest has no reservations; a non-nil
// error means the query itself failed.
func (s *ReservationStore) ListForGuest(ctx context.Context, guestID int64, limit int) ([]GuestReservation, error) {
	if limit < 1 {
		limit = 10
	}
	rows, err := s.DB.QueryContext(ctx, guestReservationsQuery, guestID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	out := make([]GuestReservation, 0, limit)
	for rows.Next() {
		var r GuestReservation
		p := &r.Property
		if err := rows.Scan(
			&r.ReservationID, &r.StartDate, &r.EndDate,
			&p.ID, &p.OwnerID, &p.Title, &p.Description,
			&p.ThumbnailPhotoURL, &p.CoverPhotoURL, &p.CostPerNight,
			&p.ParkingSpaces, &p.NumberOfBathrooms, &p.NumberOfBedrooms,
			&p.Country, &p.Street, &p.City, &p.Province, &p.PostCode,
			&p.AverageRating,
		); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return out, nil
}
