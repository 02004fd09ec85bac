package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s := NewSQLiteStore()
	require.NoError(t, s.Open(":memory:"))
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_OpenAndMigrate(t *testing.T) {
	s := newTestStore(t)

	v, err := s.MigrationVersion()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v, int64(1))

	files, symbols, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, files)
	assert.Equal(t, 0, symbols)
}

func TestSQLiteStore_SaveFileAssignsIDs(t *testing.T) {
	s := newTestStore(t)

	f := &File{Path: "order/CustomerOrder.plsql", Form: "File"}
	syms := []*Symbol{
		{Name: "Get_State", Kind: "Function", Visibility: "public", Line: 10, Column: 1},
		{Name: "Finite_State_Set___", Kind: "Procedure", Visibility: "private", Line: 42, Column: 1},
	}
	require.NoError(t, s.SaveFile(f, syms))

	assert.NotEmpty(t, f.ID)
	assert.False(t, f.IndexedAt.IsZero())
	for _, sym := range syms {
		assert.NotEmpty(t, sym.ID)
		assert.Equal(t, f.ID, sym.FileID)
		assert.Equal(t, f.Path, sym.Path)
	}

	files, symbols, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, files)
	assert.Equal(t, 2, symbols)
}

func TestSQLiteStore_SaveFileReplaces(t *testing.T) {
	s := newTestStore(t)

	path := "order/CustomerOrder.plsql"
	require.NoError(t, s.SaveFile(
		&File{Path: path, Form: "File", ErrorCount: 3},
		[]*Symbol{
			{Name: "Old_One", Kind: "Procedure", Visibility: "public", Line: 1, Column: 1},
			{Name: "Old_Two", Kind: "Procedure", Visibility: "public", Line: 2, Column: 1},
		},
	))

	// Re-indexing the same path drops the old row and its symbols.
	require.NoError(t, s.SaveFile(
		&File{Path: path, Form: "File"},
		[]*Symbol{{Name: "New_One", Kind: "Function", Visibility: "public", Line: 5, Column: 1}},
	))

	files, symbols, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, files)
	assert.Equal(t, 1, symbols, "old symbols cascade away with the file row")

	got, err := s.Search("Old", 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	bad, err := s.FilesWithErrors()
	require.NoError(t, err)
	assert.Empty(t, bad, "replacement cleared the error count")
}

func TestSQLiteStore_SearchPrefix(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveFile(
		&File{Path: "a.plsql", Form: "File"},
		[]*Symbol{
			{Name: "Get_Order", Kind: "Function", Visibility: "public", Line: 1, Column: 1},
			{Name: "get_line", Kind: "Function", Visibility: "public", Line: 2, Column: 1},
			{Name: "Remove___", Kind: "Procedure", Visibility: "private", Line: 3, Column: 1},
		},
	))

	got, err := s.Search("GET", 10)
	require.NoError(t, err)
	require.Len(t, got, 2, "prefix match is case-insensitive")
	assert.Equal(t, "get_line", got[0].Name)
	assert.Equal(t, "Get_Order", got[1].Name)
	assert.Equal(t, "a.plsql", got[0].Path)

	got, err = s.Search("GET", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1, "limit caps the result")

	got, err = s.Search("nomatch", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStore_SearchEscapesLikeMetacharacters(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveFile(
		&File{Path: "a.plsql", Form: "File"},
		[]*Symbol{
			{Name: "Get_Order", Kind: "Function", Visibility: "public", Line: 1, Column: 1},
			{Name: "GetXOrder", Kind: "Function", Visibility: "public", Line: 2, Column: 1},
		},
	))

	// "_" in the query is a literal underscore, not a wildcard.
	got, err := s.Search("Get_", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Get_Order", got[0].Name)

	got, err = s.Search("%", 10)
	require.NoError(t, err)
	assert.Empty(t, got, "a literal percent matches nothing")
}

func TestSQLiteStore_FilesWithErrors(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveFile(&File{Path: "clean.plsql", Form: "File"}, nil))
	require.NoError(t, s.SaveFile(&File{Path: "z.plsql", Form: "File", ErrorCount: 2}, nil))
	require.NoError(t, s.SaveFile(&File{Path: "a.entity", Form: "Entity", ErrorCount: 1}, nil))

	bad, err := s.FilesWithErrors()
	require.NoError(t, err)
	require.Len(t, bad, 2)
	assert.Equal(t, "a.entity", bad[0].Path, "ordered by path")
	assert.Equal(t, 1, bad[0].ErrorCount)
	assert.Equal(t, "z.plsql", bad[1].Path)
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	s := NewSQLiteStore()
	assert.Error(t, s.Migrate())
	assert.Error(t, s.SaveFile(&File{Path: "x"}, nil))
	_, err := s.Search("x", 1)
	assert.Error(t, err)
	_, err = s.FilesWithErrors()
	assert.Error(t, err)
	_, _, err = s.Stats()
	assert.Error(t, err)
	assert.NoError(t, s.Close(), "closing an unopened store is a no-op")
}

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"plain":  "plain",
		"a_b":    `a\_b`,
		"100%":   `100\%`,
		`back\s`: `back\\s`,
		"":       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, escapeLike(in), "input %q", in)
	}
}
