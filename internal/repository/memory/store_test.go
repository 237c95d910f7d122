package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go-dreamjob-backend/internal/domain"
	"go-dreamjob-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCandidate(name string) domain.Candidate {
	return domain.Candidate{
		Name:         name,
		Description:  "desc " + name,
		CreationDate: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		CityID:       2,
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Save assigns increasing ids starting at 1", func(t *testing.T) {
		store := memory.NewStore[domain.Candidate]()

		first, err := store.Save(ctx, newCandidate("Ivan"))
		require.NoError(t, err)
		second, err := store.Save(ctx, newCandidate("Petr"))
		require.NoError(t, err)

		assert.Equal(t, 1, first.ID)
		assert.Equal(t, 2, second.ID)
	})

	t.Run("Caller supplied id is ignored", func(t *testing.T) {
		store := memory.NewStore[domain.Candidate]()
		c := newCandidate("Ivan")
		c.ID = 42

		saved, err := store.Save(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, 1, saved.ID)

		missing, err := store.FindByID(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("FindByID returns the saved value", func(t *testing.T) {
		store := memory.NewStore[domain.Candidate]()
		c := newCandidate("Ivan")

		saved, err := store.Save(ctx, c)
		require.NoError(t, err)

		found, err := store.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		require.NotNil(t, found)

		c.ID = saved.ID
		assert.Equal(t, c, *found)
	})

	t.Run("Ids are not reused after delete", func(t *testing.T) {
		store := memory.NewStore[domain.Candidate]()
		first, _ := store.Save(ctx, newCandidate("Ivan"))

		deleted, err := store.DeleteByID(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		second, _ := store.Save(ctx, newCandidate("Petr"))
		assert.Equal(t, 2, second.ID)
	})

	t.Run("DeleteByID twice reports false the second time", func(t *testing.T) {
		store := memory.NewStore[domain.Candidate]()
		saved, _ := store.Save(ctx, newCandidate("Ivan"))

		first, err := store.DeleteByID(ctx, saved.ID)
		require.NoError(t, err)
		second, err := store.DeleteByID(ctx, saved.ID)
		require.NoError(t, err)

		assert.True(t, first)
		assert.False(t, second)
	})

	t.Run("Update on unknown id does not insert", func(t *testing.T) {
		store := memory.NewStore[domain.Candidate]()
		c := newCandidate("Ghost")
		c.ID = 7

		updated, err := store.Update(ctx, c)
		require.NoError(t, err)
		assert.False(t, updated)

		found, err := store.FindByID(ctx, 7)
		require.NoError(t, err)
		assert.Nil(t, found)

		all, _ := store.FindAll(ctx)
		assert.Empty(t, all)
	})

	t.Run("Update replaces mutable fields and keeps id", func(t *testing.T) {
		store := memory.NewStore[domain.Candidate]()
		saved, _ := store.Save(ctx, newCandidate("Ivan"))

		changed := domain.Candidate{
			ID:           saved.ID,
			Name:         "Ivan Ivanov",
			Description:  "Senior Go developer",
			CreationDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			CityID:       3,
			FileID:       9,
		}
		updated, err := store.Update(ctx, changed)
		require.NoError(t, err)
		assert.True(t, updated)

		found, _ := store.FindByID(ctx, saved.ID)
		require.NotNil(t, found)
		assert.Equal(t, changed, *found)
	})

	t.Run("Returned values are copies", func(t *testing.T) {
		store := memory.NewStore[domain.Candidate]()
		saved, _ := store.Save(ctx, newCandidate("Ivan"))

		found, _ := store.FindByID(ctx, saved.ID)
		found.Name = "mutated"

		again, _ := store.FindByID(ctx, saved.ID)
		assert.Equal(t, "Ivan", again.Name)
	})

	t.Run("FindAll is ordered by id", func(t *testing.T) {
		store := memory.NewStore[domain.Vacancy]()
		for i := 0; i < 5; i++ {
			_, err := store.Save(ctx, domain.Vacancy{Title: fmt.Sprintf("Vacancy %d", i)})
			require.NoError(t, err)
		}
		_, _ = store.DeleteByID(ctx, 3)

		all, err := store.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 4)
		for i, id := range []int{1, 2, 4, 5} {
			assert.Equal(t, id, all[i].ID)
		}
	})
}

func TestStoreConcurrentSave(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore[domain.Candidate]()

	const workers = 64
	const perWorker = 50

	var wg sync.WaitGroup
	ids := make(chan int, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				saved, err := store.Save(ctx, newCandidate(fmt.Sprintf("c-%d-%d", w, i)))
				if err != nil {
					t.Error(err)
					return
				}
				ids <- saved.ID
			}
		}(w)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers*perWorker)

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, workers*perWorker)
}

func TestStoreConcurrentUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore[domain.Candidate]()
	saved, _ := store.Save(ctx, newCandidate("Ivan"))

	var wg sync.WaitGroup
	var mu sync.Mutex
	deletes := 0
	for i := 0; i < 32; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c := newCandidate(fmt.Sprintf("name-%d", i))
			c.ID = saved.ID
			_, _ = store.Update(ctx, c)
		}(i)
		go func() {
			defer wg.Done()
			ok, _ := store.DeleteByID(ctx, saved.ID)
			if ok {
				mu.Lock()
				deletes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, deletes)
	found, _ := store.FindByID(ctx, saved.ID)
	assert.Nil(t, found)
}

func TestAttachmentStoreConditionalWrites(t *testing.T) {
	ctx := context.Background()

	t.Run("UpdateIfFile applies only while the file id matches", func(t *testing.T) {
		repo := memory.NewCandidateRepository()
		c := newCandidate("Ivan")
		c.FileID = 3
		saved, _ := repo.Save(ctx, c)

		changed := saved
		changed.FileID = 8
		ok, err := repo.UpdateIfFile(ctx, changed, 5)
		require.NoError(t, err)
		assert.False(t, ok)

		found, _ := repo.FindByID(ctx, saved.ID)
		assert.Equal(t, 3, found.FileID)

		ok, err = repo.UpdateIfFile(ctx, changed, 3)
		require.NoError(t, err)
		assert.True(t, ok)

		found, _ = repo.FindByID(ctx, saved.ID)
		assert.Equal(t, 8, found.FileID)
	})

	t.Run("UpdateIfFile on unknown id does not insert", func(t *testing.T) {
		repo := memory.NewVacancyRepository()
		ok, err := repo.UpdateIfFile(ctx, domain.Vacancy{ID: 4, Title: "Ghost"}, 0)
		require.NoError(t, err)
		assert.False(t, ok)

		all, _ := repo.FindAll(ctx)
		assert.Empty(t, all)
	})

	t.Run("DeleteIfFile keeps an entry whose file changed", func(t *testing.T) {
		repo := memory.NewCandidateRepository()
		c := newCandidate("Ivan")
		c.FileID = 3
		saved, _ := repo.Save(ctx, c)

		ok, err := repo.DeleteIfFile(ctx, saved.ID, 2)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = repo.DeleteIfFile(ctx, saved.ID, 3)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.DeleteIfFile(ctx, saved.ID, 3)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
