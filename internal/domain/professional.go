package domain

import (
	"time"

	"github.com/glowbook/booking-service/pkg/types"
)

// Professional represents a beauty professional owning a calendar
type Professional struct {
	ID       int64
	Slug     string // Публичная ссылка для записи: /book/{slug}
	Name     string
	Email    string
	Phone    string
	Bio      string
	Services string // Список услуг через запятую, как вводит профессионал
	Timezone string

	WorkingHours  WeekSchedule
	BufferMinutes int // Обязательный перерыв до и после занятого слота

	Settings ProfessionalSettings

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DaySchedule working hours for a single weekday
type DaySchedule struct {
	IsWorking bool             `json:"isWorking"`
	Start     types.TimeString `json:"start"`
	End       types.TimeString `json:"end"`
}

// WeekSchedule working hours for the whole week
type WeekSchedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// ForWeekday returns the schedule for the given weekday
func (w *WeekSchedule) ForWeekday(day time.Weekday) DaySchedule {
	switch day {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{IsWorking: false}
	}
}

// ProfessionalSettings booking and notification preferences of a professional
type ProfessionalSettings struct {
	AllowCancellations bool // Разрешена ли клиентам отмена подтверждённых записей
	ShowAvailableOnly  bool // Показывать ли клиентам только свободные слоты

	SlotGranularityMinutes int // Шаг нарезки свободных окон (по умолчанию 30)

	EmailNotifications    bool
	SMSNotifications      bool
	TelegramNotifications bool
}

// Granularity returns the configured slot granularity or the default
func (s *ProfessionalSettings) Granularity() int {
	if s.SlotGranularityMinutes <= 0 {
		return DefaultGranularityMinutes
	}
	return s.SlotGranularityMinutes
}

// Granularity returns the slot granularity of the professional's schedule
func (p *Professional) Granularity() int {
	return p.Settings.Granularity()
}
