package services

import "time"

// ServiceOption is a functional option for configuring the ledger services
type ServiceOption func(*BaseService)

// WithClock overrides the time source used for audit stamps and default dates
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.Clock = clock
	}
}

func applyOptions(base *BaseService, options []ServiceOption) {
	for _, option := range options {
		option(base)
	}
}
