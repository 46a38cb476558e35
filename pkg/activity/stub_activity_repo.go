package activity

import (
	"context"
	"errors"
	"slices"
)

type StubActivityRepository struct {
	nextId  int64
	entries []Entry
	// Fail makes Store return an error, for testing subscriber failures.
	Fail bool
}

func NewStubActivityRepository() *StubActivityRepository {
	return &StubActivityRepository{}
}

func (s *StubActivityRepository) Store(ctx context.Context, entry Entry) (Entry, error) {
	if s.Fail {
		return Entry{}, errors.New("store failed")
	}
	s.nextId++
	entry.Id = s.nextId
	s.entries = append(s.entries, entry)
	return entry, nil
}

func (s *StubActivityRepository) List(ctx context.Context, userId int, limit int) ([]Entry, error) {
	result := []Entry{}
	for _, e := range slices.Backward(s.entries) {
		if e.UserId != userId {
			continue
		}
		result = append(result, e)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}
