package store

import (
	"github.com/gobuffalo/packr/v2"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var seedBox = packr.New("seed", "./seed")

// Seed replaces the store contents with the bundled example polls. The
// collection is memory-resident, so every restart begins from this set.
func (s *PollStore) Seed() error {
	b, err := seedBox.Find("polls.json")
	if err != nil {
		return err
	}

	var polls []*Poll
	if err := json.Unmarshal(b, &polls); err != nil {
		return err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.polls = polls
	return nil
}
