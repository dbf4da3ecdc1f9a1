package plan

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	weekStart := WeekStart(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC))
	days := BuildFallbackDays(weekStart, &Profile{DailyCaloriesTarget: 2000})

	t.Run("GetAbsent", func(t *testing.T) {
		p, err := repo.Get(ctx, "user-1", weekStart)
		require.NoError(t, err)
		require.Nil(t, p)
	})

	t.Run("UpsertCreates", func(t *testing.T) {
		p, err := repo.Upsert(ctx, "user-1", weekStart, days, GeneratedByFallback)
		require.NoError(t, err)
		require.Equal(t, "user-1", p.UserID)
		require.Equal(t, DateString(weekStart), p.WeekStart)
		require.Equal(t, GeneratedByFallback, p.GeneratedBy)
		require.Len(t, p.Days, 7)
	})

	t.Run("UpsertReplacesInPlace", func(t *testing.T) {
		edited := BuildFallbackDays(weekStart, &Profile{DailyCaloriesTarget: 1500})
		p, err := repo.Upsert(ctx, "user-1", weekStart, edited, GeneratedByUserEdit)
		require.NoError(t, err)
		require.Equal(t, GeneratedByUserEdit, p.GeneratedBy)
		require.Equal(t, edited[0].TotalCalories, p.Days[0].TotalCalories)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("DistinctWeeksAreDistinctRows", func(t *testing.T) {
		_, err := repo.Upsert(ctx, "user-1", PreviousWeekStart(weekStart), days, GeneratedByAI)
		require.NoError(t, err)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, n)
	})

	t.Run("ConcurrentUpsertsKeepOneRow", func(t *testing.T) {
		repo := newTestRepo(t)
		var wg sync.WaitGroup
		errs := make(chan error, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(target int) {
				defer wg.Done()
				d := BuildFallbackDays(weekStart, &Profile{DailyCaloriesTarget: 1200 + target})
				_, err := repo.Upsert(ctx, "user-racy", weekStart, d, GeneratedByFallback)
				errs <- err
			}(i * 100)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, n)

		p, err := repo.Get(ctx, "user-racy", weekStart)
		require.NoError(t, err)
		require.NotNil(t, p)
		require.Len(t, p.Days, 7)
	})
}
