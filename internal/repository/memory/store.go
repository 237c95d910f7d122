package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"go-dreamjob-backend/internal/domain"
)

// Store is an in-memory implementation of domain.Repository. Entries are
// held by value, so callers never share memory with the map.
//
// Id generation uses its own atomic counter: two concurrent Save calls
// always get distinct ids, and ids are never reused after a delete.
type Store[T domain.Entity[T]] struct {
	nextID  atomic.Int64
	mu      sync.RWMutex
	entries map[int]T
}

var _ domain.Repository[domain.Candidate] = (*Store[domain.Candidate])(nil)

// NewStore creates an empty store whose first generated id is 1.
func NewStore[T domain.Entity[T]]() *Store[T] {
	return &Store[T]{
		entries: make(map[int]T),
	}
}

// NewCandidateRepository creates an in-memory candidate repository
func NewCandidateRepository() domain.CandidateRepository {
	return NewAttachmentStore[domain.Candidate]()
}

// NewVacancyRepository creates an in-memory vacancy repository
func NewVacancyRepository() domain.VacancyRepository {
	return NewAttachmentStore[domain.Vacancy]()
}

// NewCityRepository creates an in-memory city repository
func NewCityRepository() domain.CityRepository {
	return NewStore[domain.City]()
}

// NewFileRepository creates an in-memory file metadata repository
func NewFileRepository() domain.FileRepository {
	return NewStore[domain.File]()
}

// Save stores entity under a freshly generated id
func (s *Store[T]) Save(ctx context.Context, entity T) (T, error) {
	id := int(s.nextID.Add(1))
	stored := entity.WithID(id)

	s.mu.Lock()
	s.entries[id] = stored
	s.mu.Unlock()

	return stored, nil
}

// DeleteByID removes an entry by id
func (s *Store[T]) DeleteByID(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; !exists {
		return false, nil
	}
	delete(s.entries, id)
	return true, nil
}

// Update replaces an existing entry, keeping its id
func (s *Store[T]) Update(ctx context.Context, entity T) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := entity.GetID()
	if _, exists := s.entries[id]; !exists {
		return false, nil
	}
	s.entries[id] = entity.WithID(id)
	return true, nil
}

// FindByID retrieves a copy of the entry
func (s *Store[T]) FindByID(ctx context.Context, id int) (*T, error) {
	s.mu.RLock()
	entity, exists := s.entries[id]
	s.mu.RUnlock()

	if !exists {
		return nil, nil
	}
	return &entity, nil
}

// FindAll returns a snapshot of all entries ordered by id
func (s *Store[T]) FindAll(ctx context.Context) ([]T, error) {
	s.mu.RLock()
	result := make([]T, 0, len(s.entries))
	for _, entity := range s.entries {
		result = append(result, entity)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].GetID() < result[j].GetID()
	})
	return result, nil
}

// AttachmentStore is a Store for entities that own a file. Its conditional
// writes check the stored file id under the same lock as the write.
type AttachmentStore[T domain.Attachable[T]] struct {
	*Store[T]
}

var _ domain.CandidateRepository = AttachmentStore[domain.Candidate]{}

// NewAttachmentStore creates an empty store whose first generated id is 1.
func NewAttachmentStore[T domain.Attachable[T]]() AttachmentStore[T] {
	return AttachmentStore[T]{Store: NewStore[T]()}
}

// UpdateIfFile replaces the entry while it still references expectedFileID
func (s AttachmentStore[T]) UpdateIfFile(ctx context.Context, entity T, expectedFileID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := entity.GetID()
	current, exists := s.entries[id]
	if !exists || current.GetFileID() != expectedFileID {
		return false, nil
	}
	s.entries[id] = entity.WithID(id)
	return true, nil
}

// DeleteIfFile removes the entry while it still references expectedFileID
func (s AttachmentStore[T]) DeleteIfFile(ctx context.Context, id int, expectedFileID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.entries[id]
	if !exists || current.GetFileID() != expectedFileID {
		return false, nil
	}
	delete(s.entries, id)
	return true, nil
}
