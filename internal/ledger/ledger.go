// Package ledger persists the opportunity register and enforces the
// dedup, numbering and expiry rules applied on every scan.
package ledger

import (
	"fmt"
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"

	"github.com/mateobel/convoscan/internal/models"
)

// Backend loads and stores the full record set. Implementations own the
// storage format; the Session owns the rules.
type Backend interface {
	Load() ([]models.Opportunity, error)
	Save(records []models.Opportunity) error
}

// Session holds the working copy of the ledger for one run. It keeps an
// identity index alongside the records so duplicate checks stay O(1);
// the index is rebuilt from the loaded records and maintained on every
// append, never recomputed by scanning.
type Session struct {
	backend Backend
	records []models.Opportunity
	keys    mapset.Set[string]
	maxID   int
	isNew   bool
}

// Open loads the backend's records and builds the identity index. A
// backend reporting zero records produces a session flagged as new, which
// callers use to decide whether to plant seed data.
func Open(backend Backend) (*Session, error) {
	records, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	s := &Session{
		backend: backend,
		records: records,
		keys:    mapset.NewSet[string](),
		isNew:   len(records) == 0,
	}
	for _, rec := range records {
		s.keys.Add(rec.DedupKey())
		if rec.ID > s.maxID {
			s.maxID = rec.ID
		}
	}
	return s, nil
}

// IsNew reports whether the backend had no records when the session opened.
func (s *Session) IsNew() bool { return s.isNew }

// Len returns the number of records currently held.
func (s *Session) Len() int { return len(s.records) }

// Records returns the working record set, shared with the session.
// Callers may update record fields in place (rescoring does); they must
// not grow, shrink or reorder the slice, since the identity index and ID
// counter are maintained only through Append.
func (s *Session) Records() []models.Opportunity { return s.records }

// nextID hands out sequential IDs above the highest ever seen. IDs are
// never reused, even after records are removed from the backing store.
func (s *Session) nextID() int {
	s.maxID++
	return s.maxID
}

// Append adds one record unless its identity key is already present.
// A zero ID is replaced with the next sequential one; an explicit ID is
// kept and folded into the counter. Reports whether the record was added.
func (s *Session) Append(op models.Opportunity) bool {
	key := op.DedupKey()
	if s.keys.Contains(key) {
		return false
	}

	if op.ID == 0 {
		op.ID = s.nextID()
	} else if op.ID > s.maxID {
		s.maxID = op.ID
	}
	if op.DetectedOn.IsZero() {
		op.DetectedOn = models.Today()
	}
	if op.Status == "" {
		op.Status = models.StatusNew
	}

	s.records = append(s.records, op)
	s.keys.Add(key)
	return true
}

// AppendBatch appends each record through the dedup gate and returns the
// ones actually accepted, with their assigned IDs.
func (s *Session) AppendBatch(ops []models.Opportunity) []models.Opportunity {
	accepted := make([]models.Opportunity, 0, len(ops))
	for _, op := range ops {
		if !s.Append(op) {
			logrus.WithFields(logrus.Fields{
				"title":  op.Title,
				"entity": op.Entity,
			}).Debug("duplicate opportunity skipped")
			continue
		}
		accepted = append(accepted, s.records[len(s.records)-1])
	}
	return accepted
}

// statusFrozen lists statuses that expiry must not overwrite: already
// expired, already applied, or an application in flight.
var statusFrozen = map[models.Status]bool{
	models.StatusExpired:    true,
	models.StatusApplied:    true,
	models.StatusInProgress: true,
}

// MarkExpired flips records whose close date has passed to Expired, except
// those in a frozen status. The transition is one-way: nothing ever moves
// back out of Expired here. Returns how many records were flipped.
func (s *Session) MarkExpired(today time.Time) int {
	flipped := 0
	for i := range s.records {
		rec := &s.records[i]
		if statusFrozen[rec.Status] {
			continue
		}
		if rec.IsExpired(today) {
			rec.Status = models.StatusExpired
			flipped++
		}
	}
	return flipped
}

// SortByClose orders records by close date ascending. Records without a
// close date sort last; ties keep their existing relative order.
func (s *Session) SortByClose() {
	sort.SliceStable(s.records, func(i, j int) bool {
		a, b := s.records[i].ClosesOn, s.records[j].ClosesOn
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}

// Save writes the working set back through the backend.
func (s *Session) Save() error {
	if err := s.backend.Save(s.records); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}
	return nil
}
