package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xevion/go-calendar/types"
)

func TestNewWeekBuilder(t *testing.T) {
	builder := NewWeekBuilder[string]()
	assert.NotNil(t, builder)
	assert.Empty(t, builder.errors)
	assert.NotNil(t, builder.hashes)
}

func TestWeekBuilder_On(t *testing.T) {
	tests := []struct {
		name        string
		day         Weekday
		ranges      []types.TimeslotString
		expectError bool
	}{
		{
			name:   "single range",
			day:    Monday,
			ranges: []types.TimeslotString{"08:00-12:00"},
		},
		{
			name:   "touching ranges",
			day:    Sunday,
			ranges: []types.TimeslotString{"08:00-12:00", "12:00-13:00"},
		},
		{
			name:        "no ranges",
			day:         Monday,
			ranges:      []types.TimeslotString{},
			expectError: true,
		},
		{
			name:        "malformed range",
			day:         Monday,
			ranges:      []types.TimeslotString{"8-12"},
			expectError: true,
		},
		{
			name:        "reversed range",
			day:         Monday,
			ranges:      []types.TimeslotString{"12:00-08:00"},
			expectError: true,
		},
		{
			name:        "invalid day",
			day:         Weekday(7),
			ranges:      []types.TimeslotString{"08:00-12:00"},
			expectError: true,
		},
		{
			name:        "overlapping ranges",
			day:         Monday,
			ranges:      []types.TimeslotString{"08:00-12:00", "11:00-13:00"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewWeekBuilder[string]()
			result := builder.On(tt.day, tt.ranges...)

			assert.Equal(t, builder, result) // Should return self for chaining

			if tt.expectError {
				assert.Len(t, builder.errors, 1)
			} else {
				assert.Empty(t, builder.errors)
				assert.Len(t, builder.slots[tt.day], len(tt.ranges))
			}
		})
	}
}

func TestWeekBuilder_DuplicateRanges(t *testing.T) {
	builder := NewWeekBuilder[string]()

	builder.On(Monday, "08:00-12:00")
	builder.On(Monday, "08:00-12:00")

	assert.Len(t, builder.errors, 1)
	assert.Len(t, builder.slots[Monday], 1) // Only one should be added
	assert.Contains(t, builder.errors[0].Error(), "duplicate range")
}

func TestWeekBuilder_Chaining(t *testing.T) {
	builder := NewWeekBuilder[string]()

	result := builder.
		Weekdays("08:00-12:00", "13:00-17:00").
		Weekend("10:00-12:00").
		On(Wednesday, "18:00-19:00")

	assert.Equal(t, builder, result)
	assert.Empty(t, builder.errors)
	assert.Len(t, builder.slots[Monday], 2)
	assert.Len(t, builder.slots[Wednesday], 3)
	assert.Len(t, builder.slots[Sunday], 1)
}

func TestWeekBuilder_Build_Success(t *testing.T) {
	tests := []struct {
		name         string
		setupBuilder func(*WeekBuilder[string])
		expected     string
	}{
		{
			name: "daily",
			setupBuilder: func(b *WeekBuilder[string]) {
				b.Daily("09:00-10:00")
			},
			expected: "0;09:00-10:00|1;09:00-10:00|2;09:00-10:00|3;09:00-10:00|4;09:00-10:00|5;09:00-10:00|6;09:00-10:00",
		},
		{
			name: "weekdays and weekend",
			setupBuilder: func(b *WeekBuilder[string]) {
				b.Weekdays("08:00-12:00").Weekend("10:00-11:00")
			},
			expected: "0;08:00-12:00|1;08:00-12:00|2;08:00-12:00|3;08:00-12:00|4;08:00-12:00|5;10:00-11:00|6;10:00-11:00",
		},
		{
			name: "single day",
			setupBuilder: func(b *WeekBuilder[string]) {
				b.On(Thursday, "13:00-14:00", "08:00-09:00")
			},
			expected: "0;|1;|2;|3;08:00-09:00,13:00-14:00|4;|5;|6;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewWeekBuilder[string]()
			tt.setupBuilder(builder)

			week, err := builder.Build()

			require.NoError(t, err)
			require.NotNil(t, week)
			assert.Equal(t, tt.expected, week.String())
		})
	}
}

func TestWeekBuilder_Build_Errors(t *testing.T) {
	tests := []struct {
		name         string
		opts         []Option
		setupBuilder func(*WeekBuilder[string])
		expectedErr  error
	}{
		{
			name:         "no ranges",
			setupBuilder: func(b *WeekBuilder[string]) {},
		},
		{
			name: "malformed range",
			setupBuilder: func(b *WeekBuilder[string]) {
				b.Daily("08:00-12:00", "nope")
			},
			expectedErr: ErrInvalidTimeslotFormat,
		},
		{
			name: "overlap on one day",
			setupBuilder: func(b *WeekBuilder[string]) {
				b.Weekdays("08:00-12:00").On(Friday, "11:00-12:30")
			},
			expectedErr: ErrOverlappingTimeslots,
		},
		{
			name: "outside limits",
			opts: []Option{WithLimits(MustParseTime("09:00"), MustParseTime("17:00"))},
			setupBuilder: func(b *WeekBuilder[string]) {
				b.Daily("08:00-12:00")
			},
			expectedErr: ErrTimeslotOutOfLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewWeekBuilder[string](tt.opts...)
			tt.setupBuilder(builder)

			week, err := builder.Build()

			assert.Error(t, err)
			assert.Nil(t, week)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			}
		})
	}
}
