package domain

import "time"

// Client is a derived aggregate over the booking history of one professional
// Identity key is the client email; the record is recomputed from bookings
// and is never mutated independently
type Client struct {
	ProfessionalID int64
	Name           string
	Email          string
	Phone          string
	TotalBookings  int        // Число бронирований (без отклонённых и отменённых)
	LastVisit      *time.Time // Дата последнего подтверждённого визита
}
