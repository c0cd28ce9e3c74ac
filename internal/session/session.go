// Package session derives the exchange trading state from cron schedules.
package session

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"MarketPulse/internal/model"
)

// Calendar knows when the exchange opens and closes. Holidays are not modelled.
type Calendar struct {
	open  cron.Schedule
	close cron.Schedule
	loc   *time.Location
}

// NewCalendar parses standard five-field cron expressions for the session
// open and close, evaluated in loc.
func NewCalendar(openSpec, closeSpec string, loc *time.Location) (*Calendar, error) {
	open, err := cron.ParseStandard(openSpec)
	if err != nil {
		return nil, fmt.Errorf("parse open schedule %q: %w", openSpec, err)
	}
	cls, err := cron.ParseStandard(closeSpec)
	if err != nil {
		return nil, fmt.Errorf("parse close schedule %q: %w", closeSpec, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{open: open, close: cls, loc: loc}, nil
}

// Status reports whether the market is open at now. It is open when the next
// close comes before the next open.
func (c *Calendar) Status(now time.Time) model.SessionStatus {
	t := now.In(c.loc)
	nextOpen := c.open.Next(t)
	nextClose := c.close.Next(t)
	return model.SessionStatus{
		Open:      nextClose.Before(nextOpen),
		NextOpen:  nextOpen,
		NextClose: nextClose,
	}
}
