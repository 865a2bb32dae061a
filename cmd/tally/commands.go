package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/voidshard/tally/pkg/crypto"
	"github.com/voidshard/tally/pkg/ledger"
	"github.com/voidshard/tally/pkg/render"
	"github.com/voidshard/tally/pkg/store"
)

type initCmd struct{}

func (c *initCmd) Run(g *globals) error {
	ctx := context.Background()

	st, err := store.Open(g.Store, g.keys())
	if err != nil {
		return err
	}

	_, err = st.Read(ctx)
	if err == nil {
		fmt.Fprintf(g.stdout(), "Ledger %s already exists.\n", g.Store)
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	err = st.Write(ctx, nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.stdout(), "Created empty ledger %s.\n", g.Store)
	return nil
}

type listCmd struct {
	JSON bool `name:"json" help:"Print one JSON object per transaction instead of a table."`
}

func (c *listCmd) Run(g *globals) error {
	s, err := g.load(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()

	if !c.JSON {
		return render.Table(g.stdout(), s.ledger.Transactions())
	}

	for _, tx := range s.ledger.Transactions() {
		data, err := tx.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(g.stdout(), string(data))
	}
	return nil
}

type addCmd struct {
	Date        string `required:"" help:"Date of the transaction (YYYY-MM-DD)."`
	Customer    string `help:"Customer ID."`
	Amount      string `required:"" help:"Amount, debits are stored negative."`
	Type        string `required:"" help:"Type of transaction (credit/debit/transfer)."`
	Description string `help:"What the transaction was for."`
}

func (c *addCmd) Run(g *globals) error {
	ctx := context.Background()

	s, err := g.load(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	tx, err := s.ledger.Add(ledger.AddRequest{
		Date:        c.Date,
		CustomerID:  c.Customer,
		Amount:      c.Amount,
		Type:        c.Type,
		Description: c.Description,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(g.stdout(), "Transaction added successfully! Details:")
	err = render.Details(g.stdout(), tx)
	if err != nil {
		return err
	}

	return g.save(ctx, s)
}

type updateCmd struct {
	ID string `arg:"" help:"ID of the transaction to update."`

	Description      string `help:"New description."`
	ClearDescription bool   `name:"clear-description" help:"Set the description to nothing."`
	Type             string `help:"New type (credit/debit/transfer)."`
	Amount           string `help:"New amount."`
}

func (c *updateCmd) request() ledger.UpdateRequest {
	req := ledger.UpdateRequest{}
	if c.ClearDescription {
		empty := ""
		req.Description = &empty
	} else if c.Description != "" {
		req.Description = &c.Description
	}
	if c.Type != "" {
		req.Type = &c.Type
	}
	if c.Amount != "" {
		req.Amount = &c.Amount
	}
	return req
}

func (c *updateCmd) Run(g *globals) error {
	ctx := context.Background()

	s, err := g.load(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	tx, err := s.ledger.Update(c.ID, c.request())
	if err != nil {
		return err
	}

	fmt.Fprintf(g.stdout(), "Updated transaction details for ID %s:\n", tx.ID)
	err = render.Details(g.stdout(), tx)
	if err != nil {
		return err
	}

	return g.save(ctx, s)
}

type deleteCmd struct {
	ID  string `arg:"" help:"ID of the transaction to delete."`
	Yes bool   `short:"y" help:"Don't ask for confirmation."`
}

func (c *deleteCmd) Run(g *globals) error {
	ctx := context.Background()

	s, err := g.load(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	tx, err := s.ledger.Get(c.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(g.stdout(), "Found transaction with ID %s:\n", tx.ID)
	err = render.Details(g.stdout(), tx)
	if err != nil {
		return err
	}

	confirmed := c.Yes
	if !confirmed {
		fmt.Fprint(g.stdout(), "Are you sure you want to delete this transaction? (yes/no) ")
		answer, _ := g.stdin().ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		confirmed = answer == "yes" || answer == "y"
	}

	deleted, err := s.ledger.Delete(c.ID, confirmed)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(g.stdout(), "Deletion aborted.")
		return nil
	}

	fmt.Fprintf(g.stdout(), "Transaction with ID %s deleted successfully.\n", c.ID)
	return g.save(ctx, s)
}

type importCmd struct {
	Source string `arg:"" help:"Store to read transactions from, same format as --store."`
}

func (c *importCmd) Run(g *globals) error {
	ctx := context.Background()

	src, err := store.Open(c.Source, g.keys())
	if err != nil {
		return err
	}

	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.Close()

	diags, err := s.ledger.Load(ctx, src)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.stdout(), "Read %d transactions from %s (%d issues).\n", s.ledger.Len(), c.Source, len(diags))

	return g.save(ctx, s)
}

type nextIDCmd struct{}

func (c *nextIDCmd) Run(g *globals) error {
	s, err := g.load(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.ledger.NextID()
	if err != nil {
		return err
	}
	fmt.Fprintln(g.stdout(), id)
	return nil
}

type keygenCmd struct{}

func (c *keygenCmd) Run(g *globals) error {
	key, err := crypto.NewRandomKey()
	if err != nil {
		return err
	}
	sig, err := crypto.NewRandomKey()
	if err != nil {
		return err
	}
	fmt.Fprintf(g.stdout(), "TALLY_KEY=%s\nTALLY_SIGN_KEY=%s\n", key, sig)
	return nil
}
