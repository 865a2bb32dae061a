/*Basic command structure*/
package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// cli commands / args available
var cli struct {
	Globals globals `embed:""`

	Init   initCmd   `cmd:"" help:"Create an empty ledger if there is none."`
	List   listCmd   `cmd:"" aliases:"view" help:"Show all transactions."`
	Add    addCmd    `cmd:"" help:"Add a transaction."`
	Update updateCmd `cmd:"" help:"Change the description, type or amount of a transaction."`
	Delete deleteCmd `cmd:"" help:"Delete a transaction."`
	Import importCmd `cmd:"" help:"Merge transactions from another store into this one."`
	NextID nextIDCmd `cmd:"" name:"next-id" help:"Print the id the next added transaction will get."`
	Keygen keygenCmd `cmd:"" help:"Print a new key pair for sealed stores."`
}

func main() {
	// a .env file is optional, the environment wins over it
	_ = godotenv.Load()

	ctx := kong.Parse(
		&cli,
		kong.Name("tally"),
		kong.Description("A small personal finance ledger."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
