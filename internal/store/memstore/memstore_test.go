package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promo-rating/internal/apperrors"
	"promo-rating/internal/models"
	"promo-rating/internal/store"
)

func TestSetErrFailsEveryCall(t *testing.T) {
	s := New(nil)
	ctx := context.Background()
	s.SetErr(errors.New("connection refused"))

	_, err := s.Insert(ctx, models.Promoter{Name: "Иван"})
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	_, _, err = s.GetDocument(ctx, store.DocGeneral)
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	assert.Equal(t, 0, s.Writes())

	s.SetErr(nil)
	_, err = s.Insert(ctx, models.Promoter{Name: "Иван"})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Writes())
}

// Запускать с -race: отказ и счётчик меняются из разных горутин.
func TestSetErrAndWritesConcurrent(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Insert(ctx, models.Promoter{Name: "Иван"})
				_ = s.Writes()
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 50; j++ {
			s.SetErr(errors.New("timeout"))
			s.SetErr(nil)
		}
	}()
	wg.Wait()

	list, err := s.ListByLeaflets(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, len(list), s.Writes())
}
