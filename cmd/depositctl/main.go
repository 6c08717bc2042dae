// depositctl picks a deposit from a local catalog file, the same way the
// choose_deposit tool does for the conversational agent.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Dan9191/deposit-service/internal/models"
	"github.com/Dan9191/deposit-service/internal/repository"
	"github.com/Dan9191/deposit-service/internal/selector"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "depositctl",
		Short:         "Pick a bank deposit from a catalog file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newChooseCmd())
	return root
}

type chooseOptions struct {
	catalog        string
	policy         string
	index          int
	term           int
	amount         int
	currency       string
	replenishment  bool
	withdrawal     bool
	capitalization bool
}

func newChooseCmd() *cobra.Command {
	var opts chooseOptions
	cmd := &cobra.Command{
		Use:   "choose",
		Short: "Recommend a deposit for the given preferences",
		Long: `Filters the catalog by the preferences passed as flags, ranks the rest by
interest rate and prints the recommendation. Preferences left unset are not applied.`,
		Example: `  depositctl choose --catalog Sber_test.csv --currency RUB --term 180 --amount 74000 --replenishment=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(opts.catalog)
			if err != nil {
				return fmt.Errorf("failed to open catalog: %w", err)
			}
			defer f.Close()
			return runChoose(cmd, opts, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.catalog, "catalog", "Sber_test.csv", "path to the deposit catalog CSV")
	flags.StringVar(&opts.policy, "policy", selector.PolicyBounds, "term policy: bounds or tolerance")
	flags.IntVar(&opts.index, "index", selector.SelectionIndex, "position of the recommended offer in the ranking")
	flags.IntVar(&opts.term, "term", 0, "deposit term in days")
	flags.IntVar(&opts.amount, "amount", 0, "amount to deposit")
	flags.StringVar(&opts.currency, "currency", "", "currency: RUB, USD or EURO")
	flags.BoolVar(&opts.replenishment, "replenishment", false, "top-ups allowed")
	flags.BoolVar(&opts.withdrawal, "withdrawal", false, "partial withdrawal allowed")
	flags.BoolVar(&opts.capitalization, "capitalization", false, "interest capitalization")
	return cmd
}

func runChoose(cmd *cobra.Command, opts chooseOptions, catalog io.Reader) error {
	policy, err := selector.PolicyByName(opts.policy)
	if err != nil {
		return err
	}
	offers, err := repository.ParseCatalog(catalog)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	var prefs models.Preferences
	if flags.Changed("term") {
		prefs.DepositTerm = models.Int(opts.term)
	}
	if flags.Changed("amount") {
		prefs.Amount = models.Int(opts.amount)
	}
	if flags.Changed("currency") {
		prefs.Currency = models.CurrencyOf(models.Currency(opts.currency))
	}
	if flags.Changed("replenishment") {
		prefs.Replenishment = models.Bool(opts.replenishment)
	}
	if flags.Changed("withdrawal") {
		prefs.Withdrawal = models.Bool(opts.withdrawal)
	}
	if flags.Changed("capitalization") {
		prefs.Capitalization = models.Bool(opts.capitalization)
	}

	sel := selector.New(selector.WithTermPolicy(policy), selector.WithSelectionIndex(opts.index))
	msg, err := sel.Recommend(prefs, offers)
	if errors.Is(err, models.ErrNoMatchFound) {
		color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "No matching deposit found.")
		return nil
	}
	if err != nil {
		return err
	}
	color.New(color.FgMagenta).Fprintln(cmd.OutOrStdout(), msg)
	return nil
}
