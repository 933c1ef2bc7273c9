package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Priority of a rule action or a queued delivery
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// PriorityRank maps a priority to its dispatch rank. Higher dispatches first.
func PriorityRank(p Priority) int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Channel is a delivery transport for a queued notification
type Channel string

const (
	ChannelBrowser Channel = "browser"
	ChannelEmail   Channel = "email"
	ChannelSMS     Channel = "sms"
	ChannelPush    Channel = "push"
)

// UserType distinguishes console admins from care-program subjects
type UserType string

const (
	UserTypeAdmin   UserType = "admin"
	UserTypeSubject UserType = "subject"
)

// ClockMinutes parses an "HH:MM" wall-clock string into minute-of-day.
func ClockMinutes(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// MinuteOfDay returns t's wall-clock position as minutes since midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
