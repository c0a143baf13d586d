package get_free_windows

import (
	"time"

	"github.com/glowbook/booking-service/pkg/types"
)

// MaxPeriodDays максимальная глубина расчёта свободных окон
const MaxPeriodDays = 62

// Request запрос свободных окон за период [From, To] включительно по датам
type Request struct {
	ProfessionalID int64
	From           time.Time
	To             time.Time
}

// Window свободное окно в пределах одного дня
type Window struct {
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
}

// Day свободные окна одной даты
type Day struct {
	Date    string   `json:"date"`
	Windows []Window `json:"windows"`
}

// Response свободные окна по датам, дни без окон опускаются
type Response struct {
	ProfessionalID     int64 `json:"professionalId"`
	GranularityMinutes int   `json:"granularityMinutes"`
	Days               []Day `json:"days"`
}
