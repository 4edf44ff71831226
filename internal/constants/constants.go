package constants

// Pagination
const (
	MinPage         = 1
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// Password policy
const MinPasswordLength = 8

// Context keys
const (
	ContextKeyUser = "user"
)

// Task priorities: 0=high, 1=medium, 2=low
const (
	PriorityHigh   = 0
	PriorityMedium = 1
	PriorityLow    = 2

	DefaultPriority = PriorityMedium
)
