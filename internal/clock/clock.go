package clock

import "time"

// Clock abstracts wall time so date-sensitive logic (streaks, weekly
// windows, reminder scans) can be tested against a fixed "today".
type Clock interface {
	Now() time.Time
}

// System reads the real wall clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Service pairs a Clock with the process start instant. It replaces the
// global start-time variable the old dashboard kept for uptime reporting:
// the start is captured once at construction and read-only afterwards.
type Service struct {
	clock Clock
	start time.Time
}

func NewService(c Clock) *Service {
	return &Service{clock: c, start: c.Now()}
}

func (s *Service) Now() time.Time {
	return s.clock.Now()
}

func (s *Service) Start() time.Time {
	return s.start
}

// Uptime returns the elapsed time since service start.
func (s *Service) Uptime() time.Duration {
	return s.clock.Now().Sub(s.start)
}
