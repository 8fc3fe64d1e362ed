package calendar

// Defaults applied when no option overrides them.
var (
	DefaultSeriesStartLimit = Time{}
	DefaultSeriesEndLimit   = Time{minutes: MinutesPerDay - 1}
	DefaultDayStartLimit    = Time{minutes: 7 * MinutesPerHour}
	DefaultDayEndLimit      = Time{minutes: 20 * MinutesPerHour}
)

// config is shared by TimeslotSeries, Day and Week.
type config struct {
	startLimit     Time
	endLimit       Time
	limitsSet      bool
	allowMerging   bool
	enforceOverlap bool
	initialized    bool
}

// Option configures a TimeslotSeries, Day or Week.
type Option func(*config)

// WithLimits sets the boundaries used for gap extension. On a Day it also turns on
// validation that every timeslot lies within [start, end].
func WithLimits(start, end Time) Option {
	return func(c *config) {
		c.startLimit = start
		c.endLimit = end
		c.limitsSet = true
	}
}

// WithMerging controls whether insertion may split a containing free range. Defaults to true.
func WithMerging(allow bool) Option {
	return func(c *config) {
		c.allowMerging = allow
	}
}

// WithOverlapCheck makes Set reject timeslots overlapping an existing member. Defaults to false.
func WithOverlapCheck(enforce bool) Option {
	return func(c *config) {
		c.enforceOverlap = enforce
	}
}

func newConfig(start, end Time, opts []Option) config {
	c := config{
		startLimit:   start,
		endLimit:     end,
		allowMerging: true,
		initialized:  true,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func seriesConfig(opts []Option) config {
	return newConfig(DefaultSeriesStartLimit, DefaultSeriesEndLimit, opts)
}

func dayConfig(opts []Option) config {
	return newConfig(DefaultDayStartLimit, DefaultDayEndLimit, opts)
}
