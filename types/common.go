package types

// TimeString is a 24-hr format time "HH:MM" such as "07:30".
type TimeString string

// TimeslotString is a range "HH:MM-HH:MM" such as "08:00-12:00".
type TimeslotString string

// TimeRecord is the plain form of a clock time.
type TimeRecord struct {
	Hours   int `json:"hours" yaml:"hours"`
	Minutes int `json:"minutes" yaml:"minutes"`
}

// TimeslotRecord is the plain form of a range between two clock times.
type TimeslotRecord struct {
	Start TimeRecord `json:"start" yaml:"start"`
	End   TimeRecord `json:"end" yaml:"end"`
}

// TimeslotSeriesRecord is the plain form of a series, ordered by start then end.
type TimeslotSeriesRecord struct {
	Timeslots []TimeslotRecord `json:"timeslots" yaml:"timeslots"`
}

// DayRecord describes the ranges of one day. Task assignments are not part of it.
type DayRecord struct {
	DayOfWeek string           `json:"dayOfWeek" yaml:"dayOfWeek"`
	Timeslots []TimeslotRecord `json:"timeslots" yaml:"timeslots"`
}

// TaskRecord is the plain form of a task. ID is the canonical UUID string.
type TaskRecord[T any] struct {
	ID   string `json:"id" yaml:"id"`
	Data T      `json:"data" yaml:"data"`
}

// WeekRecord maps lowercase day labels ("monday", ...) to their ranges.
// Missing labels are empty days.
type WeekRecord map[string][]TimeslotRecord
