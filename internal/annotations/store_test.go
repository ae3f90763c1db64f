package annotations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	calendar "devotional/internal/clock"
	"devotional/internal/errs"
	"devotional/internal/ids"
	"devotional/internal/kv"
	kvstubs "devotional/internal/kv/stubs"
	"devotional/internal/models"
)

var brt = time.FixedZone("BRT", -3*60*60)

func setupStore(t *testing.T) (*Store, *kvstubs.MockStore, clock.FakeClock) {
	fake := clock.NewFake()
	fake.Set(time.Date(2026, time.October, 18, 9, 30, 0, 0, brt))
	store := kvstubs.NewMockStore()
	return New(store, calendar.New(fake, brt), ids.NewGenerator(fake), zap.NewNop()), store, fake
}

func TestStore_NotesCRUD(t *testing.T) {
	s, _, fake := setupStore(t)
	ctx := context.Background()

	note, err := s.CreateNote(ctx, NoteInput{Title: "  Gratidão ", Content: " Obrigado pelo dia ", Category: models.NoteDevotionals, Reference: "Salmos 23:1"})
	require.NoError(t, err)
	assert.Equal(t, "Gratidão", note.Title)
	assert.Equal(t, "Obrigado pelo dia", note.Content)
	assert.Equal(t, "2026-10-18T12:30:00.000Z", note.CreatedAt)

	fake.Add(time.Hour)
	updated, err := s.UpdateNote(ctx, note.ID, NoteInput{Title: "Gratidão", Content: "Editado", Category: models.NotePersonal})
	require.NoError(t, err)
	assert.Equal(t, note.ID, updated.ID)
	assert.Equal(t, note.CreatedAt, updated.CreatedAt, "creation time survives edits")
	assert.Equal(t, models.NotePersonal, updated.Category)
	assert.Empty(t, updated.Reference)

	got, err := s.Note(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.NoError(t, s.DeleteNote(ctx, note.ID))
	assert.ErrorIs(t, s.DeleteNote(ctx, note.ID), errs.ErrNotFound)
	_, err = s.UpdateNote(ctx, note.ID, NoteInput{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = s.Note(ctx, note.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStore_NoteValidation(t *testing.T) {
	s, store, _ := setupStore(t)
	ctx := context.Background()

	testCases := []struct {
		name  string
		input NoteInput
		field string
	}{
		{name: "blank title", input: NoteInput{Title: "   ", Content: "c"}, field: "title"},
		{name: "blank content", input: NoteInput{Title: "t", Content: "\n"}, field: "content"},
		{name: "unknown category", input: NoteInput{Title: "t", Content: "c", Category: "sermons"}, field: "category"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateNote(ctx, tc.input)
			var verr *errs.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
	assert.Equal(t, 0, store.Writes(), "rejected notes are never written")
}

func TestStore_ListNotes(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	inputs := []NoteInput{
		{Title: "Oração da manhã", Content: "Senhor, guia meus passos", Category: models.NotePersonal},
		{Title: "Estudo", Content: "O Senhor é meu pastor", Category: models.NoteDevotionals, Reference: "Salmos 23:1"},
		{Title: "Versículo", Content: "Tudo posso", Category: models.NoteFavoriteVerses, Reference: "Filipenses 4:13"},
	}
	for _, in := range inputs {
		_, err := s.CreateNote(ctx, in)
		require.NoError(t, err)
	}

	titles := func(notes []models.Note) []string {
		out := make([]string, 0, len(notes))
		for _, n := range notes {
			out = append(out, n.Title)
		}
		return out
	}

	testCases := []struct {
		name     string
		filter   NoteFilter
		expected []string
	}{
		{name: "no filter newest first", filter: NoteFilter{}, expected: []string{"Versículo", "Estudo", "Oração da manhã"}},
		{name: "category", filter: NoteFilter{Category: models.NoteDevotionals}, expected: []string{"Estudo"}},
		{name: "query in content ignores case", filter: NoteFilter{Query: "SENHOR"}, expected: []string{"Estudo", "Oração da manhã"}},
		{name: "query in reference", filter: NoteFilter{Query: "filipenses"}, expected: []string{"Versículo"}},
		{name: "category and query", filter: NoteFilter{Category: models.NotePersonal, Query: "pastor"}, expected: []string{}},
		{name: "blank query", filter: NoteFilter{Query: "  "}, expected: []string{"Versículo", "Estudo", "Oração da manhã"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			notes, err := s.ListNotes(ctx, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, titles(notes))
		})
	}
}

func TestStore_ToggleFavoriteVerse(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()
	verse := models.Verse{ID: 19, Text: "Porque sou eu que conheço os planos...", Reference: "Jeremias 29:11", Book: "Jeremias", Chapter: 29, Verse: 11}

	fav, err := s.ToggleFavoriteVerse(ctx, verse)
	require.NoError(t, err)
	assert.True(t, fav)

	ok, err := s.IsFavoriteVerse(ctx, "Jeremias 29:11")
	require.NoError(t, err)
	assert.True(t, ok)

	favs, err := s.FavoriteVerses(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, verse, favs[0].Verse)
	assert.NotEmpty(t, favs[0].Date)

	fav, err = s.ToggleFavoriteVerse(ctx, verse)
	require.NoError(t, err)
	assert.False(t, fav)

	favs, err = s.FavoriteVerses(ctx)
	require.NoError(t, err)
	assert.Empty(t, favs)

	_, err = s.ToggleFavoriteVerse(ctx, models.Verse{Text: "sem referência"})
	assert.True(t, errs.IsValidation(err))
}

func TestStore_HymnFavoritesAndRecents(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	for _, n := range []int{15, 7, 15, 3} {
		_, err := s.ToggleHymnFavorite(ctx, n)
		require.NoError(t, err)
	}
	favs, err := s.HymnFavorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 3}, favs)

	_, err = s.ToggleHymnFavorite(ctx, 0)
	assert.True(t, errs.IsValidation(err))

	for n := 1; n <= 25; n++ {
		_, err := s.RecordHymnPlayed(ctx, n)
		require.NoError(t, err)
	}
	recents, err := s.RecordHymnPlayed(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recents, maxRecentHymns)
	assert.Equal(t, []int{10, 25, 24, 23}, recents[:4])
	assert.NotContains(t, recents, 5)

	stored, err := s.RecentHymns(ctx)
	require.NoError(t, err)
	assert.Equal(t, recents, stored)
}

func TestStore_SetHighlightUpserts(t *testing.T) {
	s, store, _ := setupStore(t)
	ctx := context.Background()

	_, err := s.SetHighlight(ctx, models.Highlight{Book: "João", Chapter: "3", Verse: 16, Color: "yellow", Text: "Porque Deus amou o mundo"})
	require.NoError(t, err)
	_, err = s.SetHighlight(ctx, models.Highlight{Book: "João", Chapter: "3", Verse: 16, Color: "green", Text: "Porque Deus amou o mundo"})
	require.NoError(t, err)
	_, err = s.SetHighlight(ctx, models.Highlight{Book: "João", Chapter: "3", Verse: 17, Color: "blue"})
	require.NoError(t, err)

	hs, err := s.Highlights(ctx, "João", "3")
	require.NoError(t, err)
	require.Len(t, hs, 2)
	assert.Equal(t, "green", hs[0].Color, "latest color wins")

	var stored []models.Highlight
	ok, err := kv.GetJSON(ctx, store, kv.KeyHighlightedVerses, &stored)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, stored, 2)

	require.NoError(t, s.ClearHighlight(ctx, models.VerseRef{Book: "João", Chapter: "3", Verse: 16}))
	require.NoError(t, s.ClearHighlight(ctx, models.VerseRef{Book: "João", Chapter: "3", Verse: 16}))
	hs, err = s.Highlights(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, hs, 1)
	assert.Equal(t, 17, hs[0].Verse)

	_, err = s.SetHighlight(ctx, models.Highlight{Book: "João", Chapter: "3", Verse: 0, Color: "red"})
	assert.True(t, errs.IsValidation(err))
	_, err = s.SetHighlight(ctx, models.Highlight{Book: "João", Chapter: "3", Verse: 1})
	assert.True(t, errs.IsValidation(err))
}

func TestStore_VerseNotes(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	notes, err := s.VerseNotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)

	require.NoError(t, s.SetVerseNote(ctx, "Salmos 46:1", "Refúgio nos dias difíceis"))
	text, ok, err := s.VerseNote(ctx, "Salmos 46:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Refúgio nos dias difíceis", text)

	require.NoError(t, s.ClearVerseNote(ctx, "Salmos 46:1"))
	_, ok, err = s.VerseNote(ctx, "Salmos 46:1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, errs.IsValidation(s.SetVerseNote(ctx, " ", "x")))
}

func TestStore_StorageFailure(t *testing.T) {
	s, store, _ := setupStore(t)
	ctx := context.Background()

	_, err := s.CreateNote(ctx, NoteInput{Title: "a", Content: "b"})
	require.NoError(t, err)

	store.FailWrites(errors.New("disk full"))
	_, err = s.CreateNote(ctx, NoteInput{Title: "c", Content: "d"})
	assert.True(t, errs.IsStorage(err))

	store.FailWrites(nil)
	store.FailReads(errors.New("io error"))
	_, err = s.ListNotes(ctx, NoteFilter{})
	assert.True(t, errs.IsStorage(err))

	store.FailReads(nil)
	notes, err := s.ListNotes(ctx, NoteFilter{})
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}
