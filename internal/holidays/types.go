package holidays

import (
	"encoding/json"
	"fmt"
)

// Entry represents a single holiday entry in the JSON data.
type Entry struct {
	Holiday bool   `json:"holiday"`
	Name    string `json:"name"`
	Wage    int    `json:"wage"`
	Date    string `json:"date"`
	After   *bool  `json:"after,omitempty"`
	Target  string `json:"target,omitempty"`
	Rest    *int   `json:"rest,omitempty"`
}

// UnmarshalJSON accepts a holiday field that is either a boolean or a
// non-empty string.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type alias Entry
	aux := &struct {
		Holiday any `json:"holiday"`
		*alias
	}{
		alias: (*alias)(e),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch v := aux.Holiday.(type) {
	case bool:
		e.Holiday = v
	case string:
		e.Holiday = v != ""
	default:
		e.Holiday = false
	}
	return nil
}

// document is the on-disk layout: one object per year, keyed by "MM-DD".
type document []struct {
	Year    string            `json:"year"`
	Holiday map[string]*Entry `json:"holiday"`
}

// Set maps a year ("2025") to its "MM-DD" keyed entries.
type Set map[string]map[string]*Entry

// Info describes a day that is either a public holiday or a make-up workday.
type Info struct {
	IsHoliday bool
	Name      string
}

// Lookup returns the holiday information for a date, or nil.
func (s Set) Lookup(year, month, day int) *Info {
	entries, ok := s[fmt.Sprintf("%d", year)]
	if !ok {
		return nil
	}
	entry, ok := entries[fmt.Sprintf("%02d-%02d", month, day)]
	if !ok || entry == nil {
		return nil
	}
	return &Info{IsHoliday: entry.Holiday, Name: entry.Name}
}
