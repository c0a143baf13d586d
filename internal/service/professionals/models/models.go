package models

import (
	"fmt"

	"github.com/glowbook/booking-service/internal/domain"
)

// Request модели

// UpdateScheduleRequest запрос на обновление рабочих часов
type UpdateScheduleRequest struct {
	WorkingHours  domain.WeekSchedule `json:"workingHours"`
	BufferMinutes int                 `json:"bufferMinutes"`
}

// Validate проверяет корректность расписания
func (r *UpdateScheduleRequest) Validate() error {
	if r.BufferMinutes < 0 {
		return fmt.Errorf("buffer minutes must not be negative")
	}
	days := []struct {
		name string
		day  domain.DaySchedule
	}{
		{"monday", r.WorkingHours.Monday},
		{"tuesday", r.WorkingHours.Tuesday},
		{"wednesday", r.WorkingHours.Wednesday},
		{"thursday", r.WorkingHours.Thursday},
		{"friday", r.WorkingHours.Friday},
		{"saturday", r.WorkingHours.Saturday},
		{"sunday", r.WorkingHours.Sunday},
	}
	for _, d := range days {
		if !d.day.IsWorking {
			continue
		}
		if err := d.day.Start.Validate(); err != nil {
			return fmt.Errorf("%s: start time: %v", d.name, err)
		}
		if err := d.day.End.Validate(); err != nil {
			return fmt.Errorf("%s: end time: %v", d.name, err)
		}
		if !d.day.Start.IsBefore(d.day.End) {
			return fmt.Errorf("%s: end time must be after start time", d.name)
		}
	}
	return nil
}

// UpdateSettingsRequest запрос на обновление настроек записи
type UpdateSettingsRequest struct {
	AllowCancellations     bool `json:"allowCancellations"`
	ShowAvailableOnly      bool `json:"showAvailableOnly"`
	SlotGranularityMinutes int  `json:"slotGranularityMinutes"`
	EmailNotifications     bool `json:"emailNotifications"`
	SMSNotifications       bool `json:"smsNotifications"`
	TelegramNotifications  bool `json:"telegramNotifications"`
}

// Validate проверяет корректность настроек
func (r *UpdateSettingsRequest) Validate() error {
	if r.SlotGranularityMinutes < 0 || r.SlotGranularityMinutes > 24*60 {
		return fmt.Errorf("slot granularity must be between 0 and %d minutes", 24*60)
	}
	return nil
}

// ToDomainSettings конвертирует запрос в domain настройки
func (r *UpdateSettingsRequest) ToDomainSettings() domain.ProfessionalSettings {
	return domain.ProfessionalSettings{
		AllowCancellations:     r.AllowCancellations,
		ShowAvailableOnly:      r.ShowAvailableOnly,
		SlotGranularityMinutes: r.SlotGranularityMinutes,
		EmailNotifications:     r.EmailNotifications,
		SMSNotifications:       r.SMSNotifications,
		TelegramNotifications:  r.TelegramNotifications,
	}
}

// Response модели

// ProfileResponse публичный профиль профессионала
// Не содержит настроек и контактов, которые не нужны странице записи
type ProfileResponse struct {
	ID           int64               `json:"id"`
	Slug         string              `json:"slug"`
	Name         string              `json:"name"`
	Bio          string              `json:"bio,omitempty"`
	Services     string              `json:"services"`
	Timezone     string              `json:"timezone"`
	WorkingHours domain.WeekSchedule `json:"workingHours"`
}

// SettingsResponse настройки профессионала, видимые только владельцу
type SettingsResponse struct {
	WorkingHours           domain.WeekSchedule `json:"workingHours"`
	BufferMinutes          int                 `json:"bufferMinutes"`
	AllowCancellations     bool                `json:"allowCancellations"`
	ShowAvailableOnly      bool                `json:"showAvailableOnly"`
	SlotGranularityMinutes int                 `json:"slotGranularityMinutes"`
	EmailNotifications     bool                `json:"emailNotifications"`
	SMSNotifications       bool                `json:"smsNotifications"`
	TelegramNotifications  bool                `json:"telegramNotifications"`
}

// FromDomainProfile конвертирует domain профессионала в публичный профиль
func FromDomainProfile(p *domain.Professional) *ProfileResponse {
	return &ProfileResponse{
		ID:           p.ID,
		Slug:         p.Slug,
		Name:         p.Name,
		Bio:          p.Bio,
		Services:     p.Services,
		Timezone:     p.Timezone,
		WorkingHours: p.WorkingHours,
	}
}

// FromDomainSettings конвертирует domain профессионала в ответ с настройками
func FromDomainSettings(p *domain.Professional) *SettingsResponse {
	return &SettingsResponse{
		WorkingHours:           p.WorkingHours,
		BufferMinutes:          p.BufferMinutes,
		AllowCancellations:     p.Settings.AllowCancellations,
		ShowAvailableOnly:      p.Settings.ShowAvailableOnly,
		SlotGranularityMinutes: p.Settings.Granularity(),
		EmailNotifications:     p.Settings.EmailNotifications,
		SMSNotifications:       p.Settings.SMSNotifications,
		TelegramNotifications:  p.Settings.TelegramNotifications,
	}
}
