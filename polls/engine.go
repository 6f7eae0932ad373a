package polls

import (
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/pollberry/api.pollberry.app/store"
	"github.com/pollberry/api.pollberry.app/visitors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Engine is the only component permitted to change a poll's mutable
// fields. Every operation is a read-validate-apply-commit sequence
// serialized per poll id, so concurrent votes against the same poll
// cannot lose updates.
type Engine struct {
	store  *store.PollStore
	ledger *visitors.Ledger

	mtx   sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEngine(s *store.PollStore, l *visitors.Ledger) *Engine {
	return &Engine{
		store:  s,
		ledger: l,
		locks:  map[string]*sync.Mutex{},
	}
}

func (e *Engine) lock(pollID string) *sync.Mutex {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	m, ok := e.locks[pollID]
	if !ok {
		m = &sync.Mutex{}
		e.locks[pollID] = m
	}
	return m
}

func (e *Engine) forget(pollID string) {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	delete(e.locks, pollID)
}

// OptionInput accepts either a bare string or a {text, votes} object, as
// callers supply both forms.
type OptionInput struct {
	Text  string
	Votes int32
}

func (o *OptionInput) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		o.Text = s
		o.Votes = 0
		return nil
	}
	aux := struct {
		Text  string `json:"text"`
		Votes int32  `json:"votes"`
	}{}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	o.Text = aux.Text
	o.Votes = aux.Votes
	return nil
}

// UpdateRequest carries the optional fields of a partial update. Nil
// means the field was absent from the payload.
type UpdateRequest struct {
	OptionIndex       *int           `json:"optionIndex"`
	Question          *string        `json:"question"`
	Theme             *string        `json:"theme"`
	Accepting         *bool          `json:"accepting"`
	Options           *[]OptionInput `json:"options"`
	AddOption         *OptionInput   `json:"addOption"`
	RemoveOptionIndex *int           `json:"removeOptionIndex"`
}

// CastVote records one vote for options[optionIndex] of the given poll.
// The visitor ledger is consulted (and updated) first, then existence,
// accepting state and option bounds, each a distinct failure.
func (e *Engine) CastVote(pollID string, optionIndex int, clientToken string) (*store.Poll, error) {
	m := e.lock(pollID)
	m.Lock()
	defer m.Unlock()

	if !e.ledger.CheckAndRecord(clientToken, pollID) {
		return nil, newError(KindAlreadyVoted, "Already Voted.")
	}

	poll := e.store.GetByID(pollID)
	if poll == nil {
		return nil, newError(KindNotFound, "Poll not found")
	}

	if !poll.Accepting {
		return nil, newError(KindPollClosed, "This poll is no longer accepting votes")
	}

	if optionIndex < 0 || optionIndex >= len(poll.Options) {
		return nil, newError(KindInvalidOption, "Invalid option index")
	}

	poll.Options[optionIndex].Votes++
	now := time.Now()
	poll.UpdatedAt = &now

	if err := e.store.Commit(poll); err != nil {
		return nil, errInternalServer
	}
	return poll, nil
}

// Create validates and inserts a new poll. Caller-supplied vote counts
// are discarded; every option starts at zero.
func (e *Engine) Create(question, theme string, options []OptionInput, createdBy string) (*store.Poll, error) {
	if question == "" || theme == "" || len(options) < 2 || createdBy == "" {
		return nil, newError(KindInvalidPayload,
			"Invalid poll data. Required: question, theme, at least 2 options, and createdBy.")
	}

	opts := make([]store.PollOption, len(options))
	for i, o := range options {
		opts[i] = store.PollOption{Text: o.Text, Votes: 0}
	}

	poll := &store.Poll{
		ID:        uuid.New().String(),
		Question:  question,
		Theme:     theme,
		Options:   opts,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
		Accepting: true,
	}

	if err := e.store.Insert(poll); err != nil {
		return nil, newError(KindConflict, "Poll id already exists")
	}
	return poll, nil
}

// Update applies any non-empty subset of the partial-update fields. Each
// present field is validated and applied in order; the poll is committed
// and UpdatedAt stamped only if at least one field was applied. The
// optionIndex voting path runs through the same visitor gate as
// CastVote.
func (e *Engine) Update(pollID, caller, clientToken string, req UpdateRequest) (*store.Poll, error) {
	m := e.lock(pollID)
	m.Lock()
	defer m.Unlock()

	poll := e.store.GetByID(pollID)
	if poll == nil {
		return nil, newError(KindNotFound, "Poll not found")
	}

	if poll.CreatedBy != caller {
		return nil, newError(KindForbidden, "You do not own this poll")
	}

	modified := false

	if req.OptionIndex != nil {
		if !e.ledger.CheckAndRecord(clientToken, pollID) {
			return nil, newError(KindAlreadyVoted, "Already Voted.")
		}
		if !poll.Accepting {
			return nil, newError(KindPollClosed, "This poll is no longer accepting votes")
		}
		if *req.OptionIndex < 0 || *req.OptionIndex >= len(poll.Options) {
			return nil, newError(KindInvalidOption, "Invalid option index")
		}
		poll.Options[*req.OptionIndex].Votes++
		modified = true
	}

	if req.Question != nil {
		poll.Question = *req.Question
		modified = true
	}

	if req.Theme != nil {
		poll.Theme = *req.Theme
		modified = true
	}

	if req.Accepting != nil {
		poll.Accepting = *req.Accepting
		modified = true
	}

	if req.Options != nil {
		if len(*req.Options) < 2 {
			return nil, newError(KindInvalidPayload, "Poll must have at least 2 options")
		}
		opts := make([]store.PollOption, len(*req.Options))
		for i, o := range *req.Options {
			opts[i] = store.PollOption{Text: o.Text, Votes: o.Votes}
		}
		poll.Options = opts
		modified = true
	}

	if req.AddOption != nil {
		poll.Options = append(poll.Options, store.PollOption{
			Text:  req.AddOption.Text,
			Votes: req.AddOption.Votes,
		})
		modified = true
	}

	if req.RemoveOptionIndex != nil {
		if *req.RemoveOptionIndex < 0 || *req.RemoveOptionIndex >= len(poll.Options) {
			return nil, newError(KindInvalidOption, "Invalid option index for removal")
		}
		if len(poll.Options) <= 2 {
			return nil, newError(KindInvalidPayload, "Cannot remove option: poll must have at least 2 options")
		}
		poll.Options = append(poll.Options[:*req.RemoveOptionIndex], poll.Options[*req.RemoveOptionIndex+1:]...)
		modified = true
	}

	if !modified {
		return nil, newError(KindNoOpUpdate, "No valid update parameters provided")
	}

	now := time.Now()
	poll.UpdatedAt = &now

	if err := e.store.Commit(poll); err != nil {
		return nil, errInternalServer
	}
	return poll, nil
}

// ToggleAccepting flips the poll between Open and Closed.
func (e *Engine) ToggleAccepting(pollID, caller string) (*store.Poll, error) {
	m := e.lock(pollID)
	m.Lock()
	defer m.Unlock()

	poll := e.store.GetByID(pollID)
	if poll == nil {
		return nil, newError(KindNotFound, "Poll not found")
	}

	if poll.CreatedBy != caller {
		return nil, newError(KindForbidden, "You do not own this poll")
	}

	poll.Accepting = !poll.Accepting
	now := time.Now()
	poll.UpdatedAt = &now

	if err := e.store.Commit(poll); err != nil {
		return nil, errInternalServer
	}
	return poll, nil
}

// Delete removes the poll and returns the removed snapshot.
func (e *Engine) Delete(pollID, caller string) (*store.Poll, error) {
	m := e.lock(pollID)
	m.Lock()
	defer m.Unlock()

	poll := e.store.GetByID(pollID)
	if poll == nil {
		return nil, newError(KindNotFound, "Poll not found")
	}

	if poll.CreatedBy != caller {
		return nil, newError(KindForbidden, "You do not own this poll")
	}

	removed, err := e.store.Remove(pollID)
	if err != nil {
		return nil, newError(KindNotFound, "Poll not found")
	}

	e.forget(pollID)
	return removed, nil
}
