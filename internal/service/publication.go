package service

import "time"

// PublishDirective says what to do with a publication timestamp on write.
type PublishDirective int

const (
	PublishLeave PublishDirective = iota
	PublishSetNow
	PublishClear
)

func (d PublishDirective) String() string {
	switch d {
	case PublishSetNow:
		return "set_now"
	case PublishClear:
		return "clear"
	default:
		return "leave"
	}
}

// ReconcilePublication decides the timestamp directive from the requested
// flag and the stored timestamp. prior is nil for a new record or one whose
// timestamp is unset, so a republish after an unpublish gets a fresh time.
func ReconcilePublication(desired bool, prior *time.Time) PublishDirective {
	if !desired {
		return PublishClear
	}
	if prior == nil {
		return PublishSetNow
	}
	return PublishLeave
}

// Apply resolves the directive to the value to persist.
func (d PublishDirective) Apply(prior *time.Time, now time.Time) *time.Time {
	switch d {
	case PublishSetNow:
		ts := now.UTC()
		return &ts
	case PublishClear:
		return nil
	default:
		return prior
	}
}
