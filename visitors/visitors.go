package visitors

import (
	"net"
	"strings"
	"sync"
	"time"
)

// Record tracks vote attempts for one (client token, poll id) pair.
type Record struct {
	FirstVisit time.Time
	LastVisit  time.Time
	Visits     int
}

// Ledger decides whether a vote attempt is the first one observed from a
// given client address against a given poll. It is a heuristic, not a
// security control: it only blocks repeats from the same apparent
// address, and multiple users behind a shared address collide.
//
// Retention is process-wide and unbounded.
type Ledger struct {
	mtx     sync.Mutex
	records map[string]*Record
}

func NewLedger() *Ledger {
	return &Ledger{
		records: map[string]*Record{},
	}
}

// NormalizeToken collapses IPv6-mapped IPv4 addresses (the ::ffff: form)
// to their embedded IPv4 form, so the same physical client is keyed
// consistently regardless of which address family a connection reports.
// Tokens that are not parseable addresses pass through trimmed.
func NormalizeToken(token string) string {
	token = strings.TrimSpace(token)
	if ip := net.ParseIP(token); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			return v4.String()
		}
		return ip.String()
	}
	return token
}

func key(token, pollID string) string {
	return token + "\x00" + pollID
}

// CheckAndRecord reports whether this is the first observed attempt for
// the (clientToken, pollID) pair, and records the attempt either way.
func (l *Ledger) CheckAndRecord(clientToken, pollID string) bool {
	k := key(NormalizeToken(clientToken), pollID)
	now := time.Now()

	l.mtx.Lock()
	defer l.mtx.Unlock()

	if r, ok := l.records[k]; ok {
		r.Visits++
		r.LastVisit = now
		return false
	}

	l.records[k] = &Record{
		FirstVisit: now,
		LastVisit:  now,
		Visits:     1,
	}
	return true
}

// Lookup returns a copy of the record for the pair, if one exists.
func (l *Ledger) Lookup(clientToken, pollID string) (Record, bool) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	r, ok := l.records[key(NormalizeToken(clientToken), pollID)]
	if !ok {
		return Record{}, false
	}
	return *r, true
}

// Len returns the number of tracked (client, poll) pairs.
func (l *Ledger) Len() int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return len(l.records)
}
