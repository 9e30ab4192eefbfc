package models

import (
	"sort"
	"time"
)

// Timezone: вариант целевой таймзоны. Смещение считается относительно
// часов источника (UTC+6, Бангладеш).
type Timezone struct {
	ID            string
	Name          string
	OffsetMinutes int
	Display       string
}

const DefaultTimezoneID = "1"

var Timezones = map[string]Timezone{
	"1": {ID: "1", Name: "India", OffsetMinutes: -30, Display: "UTC +5:30"},
	"2": {ID: "2", Name: "Bangladesh", OffsetMinutes: 0, Display: "UTC +6:00"},
	"3": {ID: "3", Name: "Pakistan", OffsetMinutes: -60, Display: "UTC +5:00"},
}

// LookupTimezone возвращает таймзону по id, для неизвестного id: Индию.
func LookupTimezone(id string) Timezone {
	if tz, ok := Timezones[id]; ok {
		return tz
	}
	return Timezones[DefaultTimezoneID]
}

func ValidTimezone(id string) bool {
	_, ok := Timezones[id]
	return ok
}

// TimezoneIDs в порядке меню.
func TimezoneIDs() []string {
	ids := make([]string, 0, len(Timezones))
	for id := range Timezones {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ConvertTime переводит "HH:MM" из часов источника в таймзону tz. Результат
// заворачивается через полночь.
func ConvertTime(sourceTime string, tz Timezone) (string, error) {
	off, err := ParseClock(sourceTime)
	if err != nil {
		return "", err
	}
	base := time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC).Add(off)
	return base.Add(time.Duration(tz.OffsetMinutes) * time.Minute).Format(ClockLayout), nil
}
