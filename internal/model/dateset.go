package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// DateSet is a set of canonical YYYY-MM-DD date-strings. Set semantics keep
// duplicate completions from ever double-counting a day. It serializes as a
// sorted JSON array, both over the wire and into the completed_dates column.
type DateSet map[string]struct{}

// NewDateSet builds a set from date-strings, collapsing duplicates.
func NewDateSet(dates ...string) DateSet {
	s := make(DateSet, len(dates))
	for _, d := range dates {
		s[d] = struct{}{}
	}
	return s
}

func (s DateSet) Has(date string) bool {
	_, ok := s[date]
	return ok
}

func (s DateSet) Add(date string) {
	s[date] = struct{}{}
}

func (s DateSet) Remove(date string) {
	delete(s, date)
}

// Sorted returns the dates in ascending chronological order. Canonical
// date-strings sort lexicographically in date order.
func (s DateSet) Sorted() []string {
	dates := make([]string, 0, len(s))
	for d := range s {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

func (s DateSet) Clone() DateSet {
	c := make(DateSet, len(s))
	for d := range s {
		c[d] = struct{}{}
	}
	return c
}

func (s DateSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *DateSet) UnmarshalJSON(data []byte) error {
	var dates []string
	err := json.Unmarshal(data, &dates)
	if err != nil {
		return err
	}
	*s = NewDateSet(dates...)
	return nil
}

// Value implements driver.Valuer so sqlx can write the set as one JSON text
// column, keeping the habit row a single full document.
func (s DateSet) Value() (driver.Value, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner. An empty or NULL column scans to an empty set.
func (s *DateSet) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = DateSet{}
		return nil
	case string:
		if v == "" {
			*s = DateSet{}
			return nil
		}
		return s.UnmarshalJSON([]byte(v))
	case []byte:
		if len(v) == 0 {
			*s = DateSet{}
			return nil
		}
		return s.UnmarshalJSON(v)
	default:
		return fmt.Errorf("cannot scan %T into DateSet", src)
	}
}
