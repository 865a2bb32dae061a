package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/voidshard/tally/pkg/diag"
	"github.com/voidshard/tally/pkg/ledger"
	"github.com/voidshard/tally/pkg/store"
)

// globals holds global options
type globals struct {
	Store              string `help:"Where transactions live [csv:/path/file.csv jsonfile:/path/file.json sealed:/path/file.bin sqlite:/path/file.db es8:http://myelasticsearch:9200]" default:"csv:financial_transactions.csv" env:"TALLY_STORE"`
	ErrorLog           string `name:"error-log" help:"File diagnostics are appended to." default:"errors.txt" env:"TALLY_ERROR_LOG"`
	Strict             bool   `help:"Skip rows with unreadable dates instead of keeping them without a date." env:"TALLY_STRICT"`
	RequireDescription bool   `name:"require-description" help:"Refuse to add transactions without a description." default:"true" negatable:"" env:"TALLY_REQUIRE_DESCRIPTION"`
	Key                string `help:"Encryption key for sealed stores." env:"TALLY_KEY"`
	SignKey            string `name:"sign-key" help:"Signing key for sealed stores." env:"TALLY_SIGN_KEY"`

	out io.Writer `kong:"-"`
	in  io.Reader `kong:"-"`
}

func (g *globals) stdout() io.Writer {
	if g.out == nil {
		return os.Stdout
	}
	return g.out
}

func (g *globals) stdin() *bufio.Reader {
	if g.in == nil {
		return bufio.NewReader(os.Stdin)
	}
	return bufio.NewReader(g.in)
}

func (g *globals) keys() store.Keys {
	return store.Keys{Encryption: g.Key, Signature: g.SignKey}
}

// session is an open store, diagnostics log & ledger ready to use
type session struct {
	store  store.Store
	ledger *ledger.Ledger
	closer io.Closer
}

func (s *session) Close() error {
	return s.closer.Close()
}

// open sets up a session on the configured store, without loading anything
func (g *globals) open() (*session, error) {
	st, err := store.Open(g.Store, g.keys())
	if err != nil {
		return nil, err
	}

	logger, closer, err := diag.Open(g.ErrorLog)
	if err != nil {
		return nil, err
	}

	l := ledger.New(ledger.Options{
		Strict:             g.Strict,
		RequireDescription: g.RequireDescription,
		Log:                logger,
	})

	return &session{store: st, ledger: l, closer: closer}, nil
}

// load opens a session & loads the ledger from the store
func (g *globals) load(ctx context.Context) (*session, error) {
	s, err := g.open()
	if err != nil {
		return nil, err
	}

	diags, err := s.ledger.Load(ctx, s.store)
	if err != nil {
		s.Close()
		return nil, err
	}

	fmt.Fprintf(g.stdout(), "Loaded %d transactions.\n", s.ledger.Len())
	if len(diags) > 0 {
		fmt.Fprintf(g.stdout(), "%d issues found, see %s for details.\n", len(diags), g.ErrorLog)
	}
	return s, nil
}

func (g *globals) save(ctx context.Context, s *session) error {
	report, err := s.ledger.Save(ctx, s.store)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.stdout(), "Transactions saved to %s: %d written, %d new.\n", g.Store, report.Written, report.Added)
	return nil
}
