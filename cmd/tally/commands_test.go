package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/tally/pkg/domain"
	"github.com/voidshard/tally/pkg/ledger"
	"github.com/voidshard/tally/pkg/store"
)

func testGlobals(t *testing.T) (*globals, *bytes.Buffer) {
	dir := t.TempDir()
	out := &bytes.Buffer{}
	return &globals{
		Store:              "csv:" + filepath.Join(dir, "ledger.csv"),
		ErrorLog:           filepath.Join(dir, "errors.txt"),
		RequireDescription: true,
		out:                out,
	}, out
}

func storedRows(t *testing.T, g *globals) []domain.Row {
	s, err := store.Open(g.Store, g.keys())
	require.Nil(t, err)
	rows, err := s.Read(context.Background())
	require.Nil(t, err)
	return rows
}

func TestListBeforeInit(t *testing.T) {
	g, _ := testGlobals(t)

	err := (&listCmd{}).Run(g)
	assert.True(t, errors.Is(err, ledger.ErrMissingSource))

	data, err := os.ReadFile(g.ErrorLog)
	require.Nil(t, err)
	assert.Contains(t, string(data), "transaction source not found")
}

func TestAddUpdateDelete(t *testing.T) {
	g, out := testGlobals(t)

	require.Nil(t, (&initCmd{}).Run(g))
	assert.Contains(t, out.String(), "Created empty ledger")

	require.Nil(t, (&initCmd{}).Run(g))
	assert.Contains(t, out.String(), "already exists")

	err := (&addCmd{Date: "2024-05-01", Customer: "C1", Amount: "42", Type: "credit", Description: "salary"}).Run(g)
	require.Nil(t, err)
	err = (&addCmd{Date: "2024-05-02", Amount: "9.99", Type: "debit", Description: "book"}).Run(g)
	require.Nil(t, err)

	assert.Equal(t, []domain.Row{
		domain.RowFromValues([]string{"1", "2024-05-01", "C1", "42.00", "credit", "salary"}),
		domain.RowFromValues([]string{"2", "2024-05-02", "N/A", "-9.99", "debit", "book"}),
	}, storedRows(t, g))

	err = (&updateCmd{ID: "1", Type: "debit"}).Run(g)
	require.Nil(t, err)
	assert.Equal(t, "-42.00", storedRows(t, g)[0][domain.ColumnAmount])

	err = (&updateCmd{ID: "2", ClearDescription: true}).Run(g)
	require.Nil(t, err)
	assert.Equal(t, "", storedRows(t, g)[1][domain.ColumnDescription])

	err = (&updateCmd{ID: "999", Amount: "1"}).Run(g)
	assert.True(t, errors.Is(err, ledger.ErrNotFound))

	err = (&deleteCmd{ID: "2", Yes: true}).Run(g)
	require.Nil(t, err)
	rows := storedRows(t, g)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0].ID())

	out.Reset()
	require.Nil(t, (&listCmd{}).Run(g))
	assert.Contains(t, out.String(), "Loaded 1 transactions.")
	assert.Contains(t, out.String(), "-42.00")

	out.Reset()
	require.Nil(t, (&listCmd{JSON: true}).Run(g))
	assert.Contains(t, out.String(), `{"transaction_id":"1","date":"2024-05-01","customer_id":"C1","amount":"-42","type":"debit","description":"salary"}`)
}

func TestAddRefused(t *testing.T) {
	g, _ := testGlobals(t)
	require.Nil(t, (&initCmd{}).Run(g))

	err := (&addCmd{Date: "01/05/2024", Amount: "1", Type: "credit", Description: "x"}).Run(g)
	assert.True(t, errors.Is(err, ledger.ErrValidation))

	err = (&addCmd{Date: "2024-05-01", Amount: "1", Type: "credit"}).Run(g)
	assert.True(t, errors.Is(err, ledger.ErrValidation))

	g.RequireDescription = false
	err = (&addCmd{Date: "2024-05-01", Amount: "1", Type: "credit"}).Run(g)
	assert.Nil(t, err)
	assert.Len(t, storedRows(t, g), 1)
}

func TestDeleteAsks(t *testing.T) {
	g, out := testGlobals(t)
	require.Nil(t, (&initCmd{}).Run(g))
	require.Nil(t, (&addCmd{Date: "2024-05-01", Amount: "1", Type: "credit", Description: "x"}).Run(g))

	g.in = strings.NewReader("no\n")
	require.Nil(t, (&deleteCmd{ID: "1"}).Run(g))
	assert.Contains(t, out.String(), "Deletion aborted.")
	assert.Len(t, storedRows(t, g), 1)

	g.in = strings.NewReader("YES\n")
	require.Nil(t, (&deleteCmd{ID: "1"}).Run(g))
	assert.Len(t, storedRows(t, g), 0)
}

func TestImport(t *testing.T) {
	g, out := testGlobals(t)
	dir := filepath.Dir(g.ErrorLog)

	src := filepath.Join(dir, "bank.csv")
	data := "transaction_id,date,customer_id,amount,type,description\n" +
		"10,03-04-2024,C1,5,debit,coffee\n" +
		"11,bad,C1,abc,credit,refund\n"
	require.Nil(t, os.WriteFile(src, []byte(data), 0644))

	g.Store = "jsonfile:" + filepath.Join(dir, "ledger.json")
	require.Nil(t, (&importCmd{Source: src}).Run(g))
	assert.Contains(t, out.String(), "Read 2 transactions")

	assert.Equal(t, []domain.Row{
		domain.RowFromValues([]string{"10", "2024-04-03", "C1", "-5.00", "debit", "coffee"}),
		domain.RowFromValues([]string{"11", "", "C1", "0.00", "credit", "refund"}),
	}, storedRows(t, g))

	out.Reset()
	require.Nil(t, (&nextIDCmd{}).Run(g))
	assert.True(t, strings.HasSuffix(out.String(), "12\n"))
}

func TestSealedStore(t *testing.T) {
	g, out := testGlobals(t)

	require.Nil(t, (&keygenCmd{}).Run(g))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	g.Key = strings.TrimPrefix(lines[0], "TALLY_KEY=")
	g.SignKey = strings.TrimPrefix(lines[1], "TALLY_SIGN_KEY=")

	g.Store = "sealed:" + filepath.Join(filepath.Dir(g.ErrorLog), "ledger.bin")
	require.Nil(t, (&initCmd{}).Run(g))
	require.Nil(t, (&addCmd{Date: "2024-05-01", Amount: "3", Type: "transfer", Description: "savings"}).Run(g))

	rows := storedRows(t, g)
	require.Len(t, rows, 1)
	assert.Equal(t, "savings", rows[0][domain.ColumnDescription])
}
