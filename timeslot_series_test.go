package calendar

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func mustSeries(t *testing.T, s string, opts ...Option) *TimeslotSeries {
	t.Helper()
	series, err := ParseTimeslotSeries(s, opts...)
	require.NoError(t, err)
	return series
}

func TestParseTimeslotSeries(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		expectedErr error
	}{
		{name: "sorted output", input: "08:30-10:30,06:30-07:30", expected: "06:30-07:30,08:30-10:30"},
		{name: "single", input: "08:00-09:00", expected: "08:00-09:00"},
		{name: "touching ranges", input: "09:00-10:00,08:00-09:00", expected: "08:00-09:00,09:00-10:00"},
		{name: "overlapping", input: "08:00-10:00,09:00-11:00", expectedErr: ErrOverlappingTimeslots},
		{name: "contained", input: "08:00-12:00,09:00-10:00", expectedErr: ErrOverlappingTimeslots},
		{name: "duplicate", input: "08:00-09:00,08:00-09:00", expectedErr: ErrOverlappingTimeslots},
		{name: "empty", input: "", expectedErr: ErrEmptySeries},
		{name: "bad segment", input: "08:00-09:00,9:00-10:00", expectedErr: ErrInvalidTimeslotFormat},
		{name: "trailing separator", input: "08:00-09:00,", expectedErr: ErrInvalidTimeslotFormat},
		{name: "reversed segment", input: "13:00-18:30,19:00-18:30", expectedErr: ErrInvalidTimeslotRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeslotSeries(tt.input)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestTimeslotSeries_Set(t *testing.T) {
	lenient := NewTimeslotSeries()
	require.NoError(t, lenient.Set(MustParseTimeslot("08:00-10:00")))
	require.NoError(t, lenient.Set(MustParseTimeslot("09:00-11:00")))
	assert.Equal(t, 2, lenient.Len())

	strict := NewTimeslotSeries(WithOverlapCheck(true))
	require.NoError(t, strict.Set(MustParseTimeslot("08:00-10:00")))
	require.NoError(t, strict.Set(MustParseTimeslot("10:00-11:00")))

	err := strict.Set(MustParseTimeslot("09:00-10:30"))
	assert.ErrorIs(t, err, ErrOverlappingTimeslots)
	assert.Contains(t, err.Error(), "08:00-10:00")
	assert.Equal(t, "08:00-10:00,10:00-11:00", strict.String())
}

func TestTimeslotSeries_SetCollapsesIdentical(t *testing.T) {
	s := NewTimeslotSeries()
	require.NoError(t, s.Set(MustParseTimeslot("08:00-09:00")))
	require.NoError(t, s.Set(MustParseTimeslot("08:00-09:00")))
	assert.Equal(t, 1, s.Len())
}

func TestTimeslotSeries_HasDelete(t *testing.T) {
	s := mustSeries(t, "06:30-07:30,08:30-10:30")

	assert.True(t, s.Has(MustParseTimeslot("06:30-07:30")))
	assert.False(t, s.Has(MustParseTimeslot("06:30-07:00")))

	assert.True(t, s.Delete(MustParseTimeslot("06:30-07:30")))
	assert.False(t, s.Delete(MustParseTimeslot("06:30-07:30")))
	assert.Equal(t, "08:30-10:30", s.String())
	assert.False(t, s.OverlapsWith(MustParseTimeslot("06:00-08:00")))
}

func TestTimeslotSeries_Replace(t *testing.T) {
	t.Run("swaps member", func(t *testing.T) {
		s := mustSeries(t, "06:30-07:30,08:30-10:30")
		require.NoError(t, s.Replace(MustParseTimeslot("06:30-07:30"), MustParseTimeslot("05:00-06:00")))
		assert.Equal(t, "05:00-06:00,08:30-10:30", s.String())
	})

	t.Run("missing old is a no-op", func(t *testing.T) {
		s := mustSeries(t, "06:30-07:30")
		require.NoError(t, s.Replace(MustParseTimeslot("01:00-02:00"), MustParseTimeslot("05:00-06:00")))
		assert.Equal(t, "06:30-07:30", s.String())
	})

	t.Run("present replacement is a no-op", func(t *testing.T) {
		s := mustSeries(t, "06:30-07:30,08:30-10:30")
		require.NoError(t, s.Replace(MustParseTimeslot("06:30-07:30"), MustParseTimeslot("08:30-10:30")))
		assert.Equal(t, "06:30-07:30,08:30-10:30", s.String())
	})

	t.Run("rejected replacement keeps old", func(t *testing.T) {
		s := mustSeries(t, "06:30-07:30,08:30-10:30", WithOverlapCheck(true))
		err := s.Replace(MustParseTimeslot("06:30-07:30"), MustParseTimeslot("08:00-09:00"))
		assert.ErrorIs(t, err, ErrOverlappingTimeslots)
		assert.Equal(t, "06:30-07:30,08:30-10:30", s.String())
	})
}

func TestTimeslotSeries_FirstLast(t *testing.T) {
	s := mustSeries(t, "12:00-13:00,06:30-07:30,08:30-10:30")

	first, err := s.First()
	require.NoError(t, err)
	assert.Equal(t, "06:30-07:30", first.String())

	last, err := s.Last()
	require.NoError(t, err)
	assert.Equal(t, "12:00-13:00", last.String())

	empty := NewTimeslotSeries()
	_, err = empty.First()
	assert.ErrorIs(t, err, ErrEmptySeries)
	_, err = empty.Last()
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestTimeslotSeries_EmptyTimeslots(t *testing.T) {
	s := mustSeries(t, "06:30-07:30,08:30-10:30")

	gaps, err := s.EmptyTimeslots(false)
	require.NoError(t, err)
	assert.Equal(t, []string{"07:30-08:30"}, slotStrings(gaps))

	extended, err := s.EmptyTimeslots(true)
	require.NoError(t, err)
	assert.Equal(t, []string{"00:00-06:30", "07:30-08:30", "10:30-23:59"}, slotStrings(extended))
	for _, gap := range extended {
		assert.False(t, s.Has(gap))
	}
}

func TestTimeslotSeries_EmptyTimeslots_EdgeCases(t *testing.T) {
	t.Run("touching members leave no gap", func(t *testing.T) {
		s := mustSeries(t, "08:00-09:00,09:00-10:00")
		gaps, err := s.EmptyTimeslots(false)
		require.NoError(t, err)
		assert.Empty(t, gaps)
	})

	t.Run("members reaching the limits", func(t *testing.T) {
		s := mustSeries(t, "00:00-12:00,13:00-23:59")
		gaps, err := s.EmptyTimeslots(true)
		require.NoError(t, err)
		assert.Equal(t, []string{"12:00-13:00"}, slotStrings(gaps))
	})

	t.Run("custom limits", func(t *testing.T) {
		s := mustSeries(t, "09:00-10:00", WithLimits(MustParseTime("08:00"), MustParseTime("18:00")))
		gaps, err := s.EmptyTimeslots(true)
		require.NoError(t, err)
		assert.Equal(t, []string{"08:00-09:00", "10:00-18:00"}, slotStrings(gaps))
	})

	t.Run("overlapping members", func(t *testing.T) {
		s := NewTimeslotSeries()
		require.NoError(t, s.Set(MustParseTimeslot("08:00-12:00")))
		require.NoError(t, s.Set(MustParseTimeslot("09:00-10:00")))
		require.NoError(t, s.Set(MustParseTimeslot("13:00-14:00")))
		gaps, err := s.EmptyTimeslots(false)
		require.NoError(t, err)
		assert.Equal(t, []string{"12:00-13:00"}, slotStrings(gaps))
	})

	t.Run("empty series", func(t *testing.T) {
		s := NewTimeslotSeries()
		gaps, err := s.EmptyTimeslots(false)
		require.NoError(t, err)
		assert.Empty(t, gaps)

		_, err = s.EmptyTimeslots(true)
		assert.ErrorIs(t, err, ErrEmptySeries)
	})
}

func TestTimeslotSeries_OverlapsWith(t *testing.T) {
	s := mustSeries(t, "06:30-07:30,08:30-10:30")

	assert.True(t, s.OverlapsWith(MustParseTimeslot("07:00-09:00")))
	assert.True(t, s.OverlapsWith(MustParseTimeslot("09:00-09:30")))
	assert.False(t, s.OverlapsWith(MustParseTimeslot("07:30-08:30")))
	assert.False(t, s.OverlapsWith(MustParseTimeslot("11:00-12:00")))
}

func TestTimeslotSeries_Contains(t *testing.T) {
	s := mustSeries(t, "06:30-07:30,08:30-10:30")

	found, ok := s.Find(MustParseTimeslot("09:00-10:00"))
	require.True(t, ok)
	assert.Equal(t, "08:30-10:30", found.String())

	_, ok = s.Find(MustParseTimeslot("07:00-09:00"))
	assert.False(t, ok)

	found, ok = s.FindTime(MustParseTime("07:30"))
	require.True(t, ok)
	assert.Equal(t, "06:30-07:30", found.String())

	assert.True(t, s.Contains(MustParseTimeslot("06:30-07:30")))
	assert.True(t, s.ContainsTime(MustParseTime("10:30")))
	assert.False(t, s.ContainsTime(MustParseTime("08:00")))
}

func TestTimeslotSeriesFromSlots(t *testing.T) {
	s, err := TimeslotSeriesFromSlots([]Timeslot{
		MustParseTimeslot("12:00-13:00"),
		MustParseTimeslot("08:00-09:00"),
	})
	require.NoError(t, err)
	assert.True(t, s.Equal(mustSeries(t, "08:00-09:00,12:00-13:00")))

	_, err = TimeslotSeriesFromSlots([]Timeslot{
		MustParseTimeslot("08:00-10:00"),
		MustParseTimeslot("09:00-11:00"),
	}, WithOverlapCheck(true))
	assert.ErrorIs(t, err, ErrOverlappingTimeslots)
}

func TestTimeslotSeries_Clone(t *testing.T) {
	s := mustSeries(t, "08:00-09:00", WithLimits(MustParseTime("06:00"), MustParseTime("22:00")))
	c := s.Clone()
	require.NoError(t, c.Set(MustParseTimeslot("10:00-11:00")))

	assert.Equal(t, "08:00-09:00", s.String())
	assert.Equal(t, "08:00-09:00,10:00-11:00", c.String())
	assert.True(t, c.StartLimit().Equal(MustParseTime("06:00")))
	assert.True(t, c.EndLimit().Equal(MustParseTime("22:00")))
	assert.True(t, c.OverlapsWith(MustParseTimeslot("10:30-12:00")))
	assert.False(t, s.OverlapsWith(MustParseTimeslot("10:30-12:00")))
}

func TestTimeslotSeries_ToDate(t *testing.T) {
	s := mustSeries(t, "08:00-09:00,12:00-13:30")
	dates := s.ToDate(time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC))

	require.Len(t, dates, 2)
	assert.Equal(t, 12, dates[1][0].Hour())
	assert.Equal(t, 30, dates[1][1].Minute())
}

func TestTimeslotSeries_Serialization(t *testing.T) {
	s := mustSeries(t, "08:00-09:00,12:00-13:30")

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var fromJSON TimeslotSeries
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.True(t, s.Equal(&fromJSON))

	var fromString TimeslotSeries
	require.NoError(t, json.Unmarshal([]byte(`"12:00-13:30,08:00-09:00"`), &fromString))
	assert.Equal(t, s.String(), fromString.String())

	out, err := yaml.Marshal(s)
	require.NoError(t, err)

	var fromYAML TimeslotSeries
	require.NoError(t, yaml.Unmarshal(out, &fromYAML))
	assert.True(t, s.Equal(&fromYAML))
	assert.True(t, fromYAML.EndLimit().Equal(DefaultSeriesEndLimit))
}

func TestTimeslotSeries_UnmarshalKeepsOptions(t *testing.T) {
	const (
		overlappingRecord = `{"timeslots":[{"start":{"hours":8,"minutes":0},"end":{"hours":10,"minutes":0}},` +
			`{"start":{"hours":9,"minutes":0},"end":{"hours":11,"minutes":0}}]}`
		validRecord = `{"timeslots":[{"start":{"hours":10,"minutes":0},"end":{"hours":11,"minutes":0}},` +
			`{"start":{"hours":8,"minutes":0},"end":{"hours":9,"minutes":0}}]}`
	)

	tests := []struct {
		name        string
		data        string
		unmarshal   func([]byte, interface{}) error
		expectedErr error
	}{
		{
			name:        "json record with overlap",
			data:        overlappingRecord,
			unmarshal:   json.Unmarshal,
			expectedErr: ErrOverlappingTimeslots,
		},
		{
			name:        "json string with overlap",
			data:        `"08:00-10:00,09:00-11:00"`,
			unmarshal:   json.Unmarshal,
			expectedErr: ErrOverlappingTimeslots,
		},
		{
			name: "yaml record with overlap",
			data: "timeslots:\n" +
				"  - {start: {hours: 8, minutes: 0}, end: {hours: 10, minutes: 0}}\n" +
				"  - {start: {hours: 9, minutes: 0}, end: {hours: 11, minutes: 0}}\n",
			unmarshal:   yaml.Unmarshal,
			expectedErr: ErrOverlappingTimeslots,
		},
		{
			name:        "yaml string with overlap",
			data:        `"08:00-10:00,09:00-11:00"`,
			unmarshal:   yaml.Unmarshal,
			expectedErr: ErrOverlappingTimeslots,
		},
		{
			name:      "json record",
			data:      validRecord,
			unmarshal: json.Unmarshal,
		},
		{
			name:      "json string",
			data:      `"10:00-11:00,08:00-09:00"`,
			unmarshal: json.Unmarshal,
		},
		{
			name: "yaml record",
			data: "timeslots:\n" +
				"  - {start: {hours: 10, minutes: 0}, end: {hours: 11, minutes: 0}}\n" +
				"  - {start: {hours: 8, minutes: 0}, end: {hours: 9, minutes: 0}}\n",
			unmarshal: yaml.Unmarshal,
		},
		{
			name:      "yaml string",
			data:      `"10:00-11:00,08:00-09:00"`,
			unmarshal: yaml.Unmarshal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTimeslotSeries(
				WithOverlapCheck(true),
				WithLimits(MustParseTime("06:00"), MustParseTime("18:00")),
			)

			err := tt.unmarshal([]byte(tt.data), s)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "08:00-09:00,10:00-11:00", s.String())
			assert.True(t, s.StartLimit().Equal(MustParseTime("06:00")))
			assert.True(t, s.EndLimit().Equal(MustParseTime("18:00")))
			assert.ErrorIs(t, s.Set(MustParseTimeslot("08:30-09:30")), ErrOverlappingTimeslots)
		})
	}
}
