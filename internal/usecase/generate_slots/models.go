package generate_slots

import (
	"time"

	"github.com/glowbook/booking-service/pkg/types"
)

// MaxPeriodDays максимальная глубина генерации слотов за один запрос
const MaxPeriodDays = 62

// Request запрос на генерацию слотов из рабочих часов
// Слоты создаются на каждый рабочий день периода [From, To] включительно
type Request struct {
	ProfessionalID int64
	From           time.Time
	To             time.Time
}

// GeneratedSlot созданный при генерации слот
type GeneratedSlot struct {
	ID        int64            `json:"id"`
	Date      string           `json:"date"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
}

// Response итог генерации
// SkippedDays считает дни, целиком занятые существующими слотами или нерабочие
type Response struct {
	ProfessionalID int64           `json:"professionalId"`
	Created        []GeneratedSlot `json:"created"`
	SkippedDays    int             `json:"skippedDays"`
}
