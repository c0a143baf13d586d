package domain

import (
	"time"

	"github.com/glowbook/booking-service/pkg/types"
)

// SlotStatus represents the status of a time slot
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusPending   SlotStatus = "pending"
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusCancelled SlotStatus = "cancelled"
)

// TimeSlot represents a bookable time window of one professional
type TimeSlot struct {
	ID             int64
	ProfessionalID int64
	Date           time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString
	Status         SlotStatus
	BookingID      *int64 // Привязанное бронирование (для pending/booked слотов)
	Version        int64  // Инкрементируется при каждой смене статуса

	ReservedAt *time.Time // Момент перехода в pending, для авто-освобождения зависших резервов

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the slot participates in conflict checks
// Cancelled slots are excluded from the overlap invariant
func (s *TimeSlot) IsActive() bool {
	return s.Status != SlotStatusCancelled
}

// IsBookable returns true if a client can request this slot
func (s *TimeSlot) IsBookable() bool {
	return s.Status == SlotStatusAvailable
}

// CanBeDeleted returns true if the professional may remove the slot
// Slots holding a pending or booked reservation must be resolved first
func (s *TimeSlot) CanBeDeleted() bool {
	return s.Status == SlotStatusAvailable || s.Status == SlotStatusCancelled
}

// Overlaps returns true if two slots of the same professional intersect in time
// Intervals are half-open [start, end), so back-to-back slots do not overlap
func (s *TimeSlot) Overlaps(other *TimeSlot) bool {
	if s.ProfessionalID != other.ProfessionalID {
		return false
	}
	if !isSameDay(s.Date, other.Date) {
		return false
	}
	return s.StartTime.IsBefore(other.EndTime) && other.StartTime.IsBefore(s.EndTime)
}

// SlotFilter фильтр для выборки слотов профессионала
type SlotFilter struct {
	ProfessionalID   int64      // Обязательный параметр
	From             *time.Time // Начало периода (опционально)
	To               *time.Time // Конец периода включительно (опционально)
	OnlyAvailable    bool       // Только слоты со статусом available
	IncludeCancelled bool       // Включать ли отменённые слоты
}

func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
