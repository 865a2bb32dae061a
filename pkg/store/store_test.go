package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/tally/pkg/crypto"
	"github.com/voidshard/tally/pkg/domain"
)

func testRows() []domain.Row {
	return []domain.Row{
		domain.RowFromValues([]string{"1", "2024-01-02", "C1", "-12.50", "debit", "groceries, weekly"}),
		domain.RowFromValues([]string{"X1", "", "N/A", "0.00", "", `quoted "thing"`}),
		domain.RowFromValues([]string{"3", "2024-01-03", "C2", "100.00", "credit", ""}),
	}
}

func testStores(t *testing.T) map[string]Store {
	dir := t.TempDir()

	key, err := crypto.NewRandomKey()
	require.Nil(t, err)
	sig, err := crypto.NewRandomKey()
	require.Nil(t, err)
	sealed, err := NewSealedFile(filepath.Join(dir, "ledger.bin"), key, sig)
	require.Nil(t, err)

	return map[string]Store{
		"csv":    NewCSVFile(filepath.Join(dir, "ledger.csv")),
		"json":   NewJSONFile(filepath.Join(dir, "ledger.json")),
		"sealed": sealed,
		"sqlite": NewSQLite(filepath.Join(dir, "db", "ledger.db")),
		"memory": NewMemory(),
	}
}

func TestStoresMissingSource(t *testing.T) {
	for name, s := range testStores(t) {
		_, err := s.Read(context.Background())
		assert.True(t, errors.Is(err, ErrNotFound), name)
	}
}

func TestStoresRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, s := range testStores(t) {
		err := s.Write(ctx, testRows())
		require.Nil(t, err, name)

		rows, err := s.Read(ctx)
		require.Nil(t, err, name)
		assert.Equal(t, testRows(), rows, name)
	}
}

func TestStoresWriteReplaces(t *testing.T) {
	ctx := context.Background()

	for name, s := range testStores(t) {
		require.Nil(t, s.Write(ctx, testRows()), name)
		require.Nil(t, s.Write(ctx, testRows()[:1]), name)

		rows, err := s.Read(ctx)
		require.Nil(t, err, name)
		assert.Len(t, rows, 1, name)
	}
}

func TestStoresEmpty(t *testing.T) {
	ctx := context.Background()

	for name, s := range testStores(t) {
		require.Nil(t, s.Write(ctx, nil), name)

		rows, err := s.Read(ctx)
		require.Nil(t, err, name)
		assert.Len(t, rows, 0, name)
	}
}

func TestCSVHeaderOnlyAndEmptyFile(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.csv")
	require.Nil(t, os.WriteFile(empty, nil, 0644))
	rows, err := NewCSVFile(empty).Read(context.Background())
	assert.Nil(t, err)
	assert.Len(t, rows, 0)

	headerOnly := filepath.Join(dir, "header.csv")
	require.Nil(t, os.WriteFile(headerOnly, []byte("transaction_id,date,customer_id,amount,type,description\n"), 0644))
	rows, err = NewCSVFile(headerOnly).Read(context.Background())
	assert.Nil(t, err)
	assert.Len(t, rows, 0)
}

func TestCSVReadByHeaderName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd.csv")
	data := "\ufeffamount, transaction_id ,type,notes\n5.00,7,credit,extra\n1.00,8\n"
	require.Nil(t, os.WriteFile(path, []byte(data), 0644))

	rows, err := NewCSVFile(path).Read(context.Background())
	require.Nil(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "7", rows[0].ID())
	assert.Equal(t, "5.00", rows[0].Get(domain.ColumnAmount))
	assert.Equal(t, "", rows[0].Get(domain.ColumnDate))
	assert.Equal(t, "8", rows[1].ID())
	assert.Equal(t, "", rows[1].Get(domain.ColumnType))
}

func TestCSVWriteColumnOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	err := NewCSVFile(path).Write(context.Background(), []domain.Row{
		{domain.ColumnDescription: "d", domain.ColumnID: "1", domain.ColumnAmount: "2.00", "junk": "x"},
	})
	require.Nil(t, err)

	data, err := os.ReadFile(path)
	require.Nil(t, err)
	assert.Equal(t, "transaction_id,date,customer_id,amount,type,description\n1,,,2.00,,d\n", string(data))
}

func TestSealedFileIsNotPlainText(t *testing.T) {
	key, err := crypto.NewRandomKey()
	require.Nil(t, err)
	filename := filepath.Join(t.TempDir(), "ledger.bin")

	s, err := NewSealedFile(filename, key, "a-signature-key-of-at-least-32-chars")
	require.Nil(t, err)
	require.Nil(t, s.Write(context.Background(), testRows()))

	data, err := os.ReadFile(filename)
	require.Nil(t, err)
	assert.NotContains(t, string(data), "groceries")

	other, err := NewSealedFile(filename, key, "a-different-signature-key-of-32-chars")
	require.Nil(t, err)
	_, err = other.Read(context.Background())
	assert.True(t, errors.Is(err, crypto.ErrSignature))
}

func TestNewSealedFileShortKeys(t *testing.T) {
	_, err := NewSealedFile("x", "short", "short")
	assert.True(t, errors.Is(err, crypto.ErrKeyLength))
}

func TestSQLiteUnreadablePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain")
	require.Nil(t, os.WriteFile(file, []byte("x"), 0644))

	// a path below a regular file can't be stat'ed, that isn't a missing store
	_, err := NewSQLite(filepath.Join(file, "ledger.db")).Read(context.Background())
	require.NotNil(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "stat database")
}

func TestMemoryIsolation(t *testing.T) {
	rows := testRows()
	m := NewMemory(rows...)

	rows[0][domain.ColumnID] = "changed"
	got, err := m.Read(context.Background())
	require.Nil(t, err)
	assert.Equal(t, "1", got[0].ID())

	got[0][domain.ColumnID] = "changed"
	again, _ := m.Read(context.Background())
	assert.Equal(t, "1", again[0].ID())
}

func TestOpen(t *testing.T) {
	keys := Keys{Encryption: "0123456789abcdef0123456789abcdef", Signature: "fedcba9876543210fedcba9876543210"}

	cases := []struct {
		uri    string
		expect interface{}
	}{
		{"csv:/tmp/a.csv", &CSVFile{}},
		{"/tmp/a.csv", &CSVFile{}},
		{"ledger.csv", &CSVFile{}},
		{"C:\\data\\ledger.csv", &CSVFile{}},
		{"jsonfile:/tmp/a.json", &JSONFile{}},
		{"sealed:/tmp/a.bin", &SealedFile{}},
		{"sqlite:/tmp/a.db", &SQLite{}},
		{"es8:http://localhost:9200", &ElasticsearchV8{}},
	}

	for _, c := range cases {
		s, err := Open(c.uri, keys)
		require.Nil(t, err, c.uri)
		assert.IsType(t, c.expect, s, c.uri)
	}

	s, _ := Open("csv:/tmp/a.csv", keys)
	assert.Equal(t, "/tmp/a.csv", s.(*CSVFile).filename)

	s, _ = Open("es8:http://es:9200", keys)
	assert.Equal(t, []string{"http://es:9200"}, s.(*ElasticsearchV8).addresses)

	_, err := Open("", keys)
	assert.NotNil(t, err)

	_, err = Open("sealed:/tmp/a.bin", Keys{})
	assert.NotNil(t, err)
}

func TestElasticsearchDefaults(t *testing.T) {
	t.Setenv(envEsAddr, "search.internal")
	t.Setenv(envEsPort, "")

	assert.Equal(t, []string{"http://search.internal:9200"}, NewElasticsearchV8().addresses)
	assert.Equal(t, []string{"http://search.internal:9200"}, NewElasticsearchV8("").addresses)
	assert.Equal(t, []string{"http://a:1", "http://b:2"}, NewElasticsearchV8("http://a:1", "http://b:2").addresses)
}

func TestESDocRoundTrip(t *testing.T) {
	r := testRows()[0]
	assert.Equal(t, r, newESDoc(4, r).row())
}
