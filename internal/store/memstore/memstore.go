// Package memstore - хранилище документов в памяти процесса.
// Используется в тестах и при STORE_DRIVER=memory для локальной разработки.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"promo-rating/internal/apperrors"
	"promo-rating/internal/models"
	"promo-rating/internal/store"
)

// Store реализует store.PromoterStore и store.DocumentStore.
type Store struct {
	mu        sync.Mutex
	promoters map[string]models.Promoter
	docs      map[store.DocKey][]byte
	now       store.Clock

	err    error
	writes int
}

// New создаёт пустое хранилище. clock может быть nil.
func New(clock store.Clock) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		promoters: map[string]models.Promoter{},
		docs:      map[store.DocKey][]byte{},
		now:       clock,
	}
}

// SetErr задаёт ошибку, которую каждый следующий вызов вернёт как
// недоступность хранилища. nil снимает отказ.
func (s *Store) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Writes - число выполненных операций записи.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// fail вызывается под s.mu.
func (s *Store) fail(op string) error {
	if s.err != nil {
		return apperrors.StoreUnavailable(op, s.err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.Promoter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("get promoter"); err != nil {
		return nil, err
	}
	p, ok := s.promoters[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) Insert(ctx context.Context, p models.Promoter) (models.Promoter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("insert promoter"); err != nil {
		return models.Promoter{}, err
	}
	now := s.now()
	p.ID = uuid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.promoters[p.ID] = p
	s.writes++
	return p, nil
}

func (s *Store) Update(ctx context.Context, id string, f store.PromoterFields) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("update promoter"); err != nil {
		return false, err
	}
	p, ok := s.promoters[id]
	if !ok {
		return false, nil
	}
	if f.Name != nil {
		p.Name = *f.Name
	}
	if f.AvatarURL != nil {
		p.AvatarURL = *f.AvatarURL
	}
	if f.LeafletsCount != nil {
		p.LeafletsCount = *f.LeafletsCount
	}
	if f.WorkDays != nil {
		p.WorkDays = *f.WorkDays
	}
	if f.District != nil {
		p.District = *f.District
	}
	if f.StartDate != nil {
		p.StartDate = *f.StartDate
	}
	if f.Speed != nil {
		p.Speed = *f.Speed
	}
	p.UpdatedAt = s.now()
	s.promoters[id] = p
	s.writes++
	return true, nil
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("delete promoter"); err != nil {
		return false, err
	}
	if _, ok := s.promoters[id]; !ok {
		return false, nil
	}
	delete(s.promoters, id)
	s.writes++
	return true, nil
}

func (s *Store) ListByLeaflets(ctx context.Context, limit int) ([]models.Promoter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("list promoters"); err != nil {
		return nil, err
	}
	out := make([]models.Promoter, 0, len(s.promoters))
	for _, p := range s.promoters {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.LeafletsCount != b.LeafletsCount {
			return a.LeafletsCount > b.LeafletsCount
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) GetDocument(ctx context.Context, key store.DocKey) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("get document"); err != nil {
		return nil, false, err
	}
	data, ok := s.docs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (s *Store) PutDocument(ctx context.Context, key store.DocKey, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("put document"); err != nil {
		return err
	}
	s.docs[key] = append([]byte(nil), data...)
	s.writes++
	return nil
}

func (s *Store) CreateDocumentIfAbsent(ctx context.Context, key store.DocKey, defaults []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("create document"); err != nil {
		return nil, err
	}
	if data, ok := s.docs[key]; ok {
		return append([]byte(nil), data...), nil
	}
	s.docs[key] = append([]byte(nil), defaults...)
	s.writes++
	return append([]byte(nil), defaults...), nil
}
