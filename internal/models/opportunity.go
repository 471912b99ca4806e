package models

import (
	"strings"
	"time"
)

// Kind classifies what an opportunity offers.
type Kind string

const (
	KindScholarship    Kind = "Scholarship"
	KindMobility       Kind = "Mobility"
	KindResearch       Kind = "Research"
	KindInternship     Kind = "Internship"
	KindExtension      Kind = "Extension"
	KindRepresentation Kind = "Representation"
	KindOther          Kind = "Other"
)

// Relevance is the scored fit against the academic profile.
type Relevance string

const (
	RelevanceHigh   Relevance = "High"
	RelevanceMedium Relevance = "Medium"
	RelevanceLow    Relevance = "Low"
)

// Status tracks the review lifecycle of an opportunity. The Expired
// transition is automatic; every other non-New status is set by a human.
type Status string

const (
	StatusNew           Status = "New"
	StatusReviewed      Status = "Reviewed"
	StatusInPreparation Status = "In preparation"
	StatusApplied       Status = "Applied"
	StatusDiscarded     Status = "Discarded"
	StatusExpired       Status = "Expired"
	StatusInProgress    Status = "In progress"
)

// Columns is the ledger row layout, in order.
var Columns = []string{
	"ID", "Detected_on", "Title", "Entity", "Kind", "Source",
	"URL", "Opens_on", "Closes_on", "Amount", "Key_requirements",
	"Required_documents", "Relevance", "Status", "Notes",
}

// Opportunity is one funding/mobility call tracked by the scanner.
type Opportunity struct {
	ID                int // 0 means not yet persisted
	DetectedOn        time.Time
	Title             string
	Entity            string
	Kind              Kind
	Source            string
	URL               string
	OpensOn           *time.Time
	ClosesOn          *time.Time
	Amount            string
	KeyRequirements   string
	RequiredDocuments string
	Relevance         Relevance
	Status            Status
	Notes             string
}

// DedupKey builds the case/whitespace-insensitive identity of the record.
// Two records with the same key are the same opportunity regardless of any
// other field.
func (o *Opportunity) DedupKey() string {
	return strings.ToLower(strings.TrimSpace(o.Title)) + "|" + strings.ToLower(strings.TrimSpace(o.Entity))
}

// IsExpired reports whether the close date has passed. Records without a
// close date never expire ("unknown deadline" is not "no deadline").
func (o *Opportunity) IsExpired(today time.Time) bool {
	if o.ClosesOn == nil {
		return false
	}
	return DateOnly(*o.ClosesOn).Before(DateOnly(today))
}

// Today returns the current local wall-clock date at midnight. Deadline
// comparisons use calendar dates only, never times of day.
func Today() time.Time {
	return DateOnly(time.Now())
}

// DateOnly strips the time-of-day component, keeping the location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
