package annotations

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"devotional/internal/errs"
	"devotional/internal/models"
)

// ToggleFavoriteVerse adds the verse to the favourites, or removes it when a
// favourite with the same reference exists. It returns the new state.
func (s *Store) ToggleFavoriteVerse(ctx context.Context, verse models.Verse) (bool, error) {
	verse.Reference = strings.TrimSpace(verse.Reference)
	if verse.Reference == "" {
		return false, errs.Invalid("reference", "must not be empty")
	}

	var favorite bool
	_, err := s.favorites.Update(ctx, func(favs []models.FavoriteVerse) ([]models.FavoriteVerse, error) {
		i := slices.IndexFunc(favs, func(f models.FavoriteVerse) bool { return f.Reference == verse.Reference })
		if i >= 0 {
			favorite = false
			return slices.Delete(favs, i, i+1), nil
		}
		favorite = true
		return append(favs, models.FavoriteVerse{Verse: verse, Date: s.timestamp()}), nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle favourite verse: %w", err)
	}

	s.logger.Info("Favourite verse toggled", zap.String("reference", verse.Reference), zap.Bool("favorite", favorite))
	return favorite, nil
}

// IsFavoriteVerse reports whether the reference is among the favourites
func (s *Store) IsFavoriteVerse(ctx context.Context, reference string) (bool, error) {
	favs, err := s.FavoriteVerses(ctx)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(favs, func(f models.FavoriteVerse) bool { return f.Reference == reference }), nil
}

// FavoriteVerses returns the favourite verses in the order they were added
func (s *Store) FavoriteVerses(ctx context.Context) ([]models.FavoriteVerse, error) {
	favs, err := s.favorites.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load favourite verses: %w", err)
	}
	return slices.Clone(favs), nil
}

// ToggleHymnFavorite adds or removes a hymn number from the favourites and
// returns the new state
func (s *Store) ToggleHymnFavorite(ctx context.Context, number int) (bool, error) {
	if number <= 0 {
		return false, errs.Invalid("number", "must be positive")
	}

	var favorite bool
	_, err := s.hymnFavorites.Update(ctx, func(numbers []int) ([]int, error) {
		if i := slices.Index(numbers, number); i >= 0 {
			favorite = false
			return slices.Delete(numbers, i, i+1), nil
		}
		favorite = true
		return append(numbers, number), nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle favourite hymn: %w", err)
	}
	return favorite, nil
}

// HymnFavorites returns the favourite hymn numbers
func (s *Store) HymnFavorites(ctx context.Context) ([]int, error) {
	numbers, err := s.hymnFavorites.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load favourite hymns: %w", err)
	}
	return slices.Clone(numbers), nil
}

// maxRecentHymns bounds the played-hymns history
const maxRecentHymns = 20

// RecordHymnPlayed moves number to the front of the recent hymns list
func (s *Store) RecordHymnPlayed(ctx context.Context, number int) ([]int, error) {
	if number <= 0 {
		return nil, errs.Invalid("number", "must be positive")
	}

	recents, err := s.hymnRecents.Update(ctx, func(numbers []int) ([]int, error) {
		numbers = slices.DeleteFunc(numbers, func(n int) bool { return n == number })
		numbers = append([]int{number}, numbers...)
		if len(numbers) > maxRecentHymns {
			numbers = numbers[:maxRecentHymns]
		}
		return numbers, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record hymn: %w", err)
	}
	return slices.Clone(recents), nil
}

// RecentHymns returns the recently played hymn numbers, most recent first
func (s *Store) RecentHymns(ctx context.Context) ([]int, error) {
	numbers, err := s.hymnRecents.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent hymns: %w", err)
	}
	return slices.Clone(numbers), nil
}
