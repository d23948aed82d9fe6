// Package core provides the domain types and business logic for training
// registrations. This package has no UI dependencies and can be used by any frontend.
package core

import (
	"context"
	"time"
)

// Registration is one submitted training sign-up record.
// ID and CreatedAt are assigned by the store and never change afterwards.
type Registration struct {
	ID                       string    `json:"id"`
	FullName                 string    `json:"full_name"`
	CorporateEmail           string    `json:"corporate_email"`
	Department               string    `json:"department"`
	AutomationFamiliarity    string    `json:"automation_familiarity"`
	ParticipationDay         string    `json:"participation_day"`
	NeedsAccessibility       bool      `json:"needs_accessibility"`
	AccessibilityDescription *string   `json:"accessibility_description"`
	Observations             *string   `json:"observations"`
	CreatedAt                time.Time `json:"created_at"`
}

// NewRegistration holds the fields written on insert.
// The store assigns ID and CreatedAt.
type NewRegistration struct {
	FullName                 string
	CorporateEmail           string
	Department               string
	AutomationFamiliarity    string
	ParticipationDay         string
	NeedsAccessibility       bool
	AccessibilityDescription *string
	Observations             *string
}

// SubmissionForm is the raw form input as typed by the user.
type SubmissionForm struct {
	FullName                 string
	CorporateEmail           string
	Department               string
	AutomationFamiliarity    string
	ParticipationDay         string
	NeedsAccessibility       bool
	AccessibilityDescription string
	Observations             string
}

// Subscription is a cancelable handle on the change feed.
type Subscription interface {
	// Unsubscribe stops notifications and releases the underlying resources.
	// It is safe to call more than once.
	Unsubscribe() error
}

// Feed delivers a payload-free notification on any insert, update or delete
// of the registration set.
type Feed interface {
	Subscribe(ctx context.Context, onChange func()) (Subscription, error)
}

// Lister reads every registration ordered by creation time, newest first.
type Lister interface {
	List(ctx context.Context) ([]Registration, error)
}

// Inserter writes exactly one registration and returns it as stored.
type Inserter interface {
	Insert(ctx context.Context, r NewRegistration) (Registration, error)
}

// Store is the external record store: insert-one, select-all, subscribe.
type Store interface {
	Inserter
	Lister
	Feed
}

// Publisher announces a change for feeds that are not driven by the store
// itself (e.g. Redis pub/sub).
type Publisher interface {
	Publish(ctx context.Context) error
}
