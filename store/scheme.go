package store

import (
	"time"
)

// Poll is the voteable aggregate. Theme is an opaque tag chosen by the
// creator (the seed set uses strawberry, blueberry, lime, grape and
// tangerine); unknown values are passed through untouched.
type Poll struct {
	ID        string       `json:"id"`
	Question  string       `json:"question"`
	Theme     string       `json:"theme"`
	Options   []PollOption `json:"options"`
	CreatedBy string       `json:"createdBy"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt *time.Time   `json:"updatedAt,omitempty"`
	Accepting bool         `json:"accepting"`
}

type PollOption struct {
	Text  string `json:"text"`
	Votes int32  `json:"votes"`
}

// Copy returns a deep copy. The store hands out and accepts only copies
// so callers cannot mutate stored state without committing.
func (p *Poll) Copy() *Poll {
	if p == nil {
		return nil
	}
	c := *p
	c.Options = make([]PollOption, len(p.Options))
	copy(c.Options, p.Options)
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}
