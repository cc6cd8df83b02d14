package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tillbook/internal/ledger"
	"github.com/roach88/tillbook/internal/pos"
)

// SellOptions holds flags for the sell command.
type SellOptions struct {
	*RootOptions
	Quantity int
	Price    int
	Seller   string
	Card     bool
	Staff    string
	Purchase int
	At       string
}

// SaleResult describes a recorded sale.
type SaleResult struct {
	PeriodID int    `json:"period_id"`
	At       string `json:"at"`
	Article  string `json:"article"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
	Total    int    `json:"total"`
	Seller   string `json:"seller"`
	Bill     string `json:"bill"`
	Purchase int    `json:"purchase_id,omitempty"`
}

// NewSellCommand creates the sell command.
func NewSellCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SellOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sell [article]",
		Short: "Record a sale in the open period",
		Long: `Record one sold line item in the open selling period.

The article is looked up in the catalog by name, then by barcode, and its
selling price is used unless --price is given. Without a catalog, or for a
sale with no article ("-" or no argument), --price is required.

The sale is settled in cash unless --card or --staff is given.

Examples:
  tillbook sell Kávé --catalog articles.yaml
  tillbook sell Sör --qty 3 --staff bela --catalog articles.yaml
  tillbook sell --price 100`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runSell(opts, name, cmd.Flags().Changed("price"), cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Quantity, "qty", "q", 1, "quantity sold")
	cmd.Flags().IntVar(&opts.Price, "price", 0, "unit price (default catalog price)")
	cmd.Flags().StringVar(&opts.Seller, "seller", "", "seller (default the period's user)")
	cmd.Flags().BoolVar(&opts.Card, "card", false, "paid by card")
	cmd.Flags().StringVar(&opts.Staff, "staff", "", "charge to this staff member's bill")
	cmd.Flags().IntVar(&opts.Purchase, "purchase", 0, "purchase id grouping items of one checkout")
	cmd.Flags().StringVar(&opts.At, "at", "", "sale time (default now)")
	cmd.MarkFlagsMutuallyExclusive("card", "staff")

	return cmd
}

func runSell(opts *SellOptions, name string, priceSet bool, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	s, err := openSession(opts.RootOptions)
	if err != nil {
		return failOpen(formatter, err)
	}
	defer s.Close()

	article, err := s.resolveArticle(name)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeCatalog, "resolve article", err)
	}

	price := opts.Price
	if !priceSet {
		if article == nil || s.catalog == nil {
			msg := "--price is required without a catalog article"
			_ = formatter.Error(ErrCodeGeneric, msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
		price = article.SellingPrice
	}

	last, err := s.lastPeriod()
	if err != nil {
		return formatter.FailLedger("read ledger", err)
	}
	if !last.Unclosed() {
		msg := "no open period: open the till first"
		_ = formatter.Error(ErrCodeState, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}
	period := last.Period

	at, err := s.timestamp(opts.At)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "record sale", err)
	}

	var bill pos.BillID = pos.PeriodCash{PeriodID: period.ID}
	switch {
	case opts.Staff != "":
		bill = pos.StaffBill{Username: opts.Staff}
	case opts.Card:
		bill = pos.PeriodCard{PeriodID: period.ID}
	}

	seller := opts.Seller
	if seller == "" {
		seller = period.Username
	}

	sale := &pos.Sale{
		Timestamp:    at,
		Article:      article,
		Quantity:     opts.Quantity,
		PricePerUnit: price,
		Seller:       seller,
		BillID:       bill,
		PurchaseID:   opts.Purchase,
	}
	if err := s.ledger.Sale(sale); err != nil {
		return formatter.FailLedger("record sale", err)
	}

	articleName := sale.ArticleName()
	if articleName == "" {
		articleName = ledger.NoArticleName
	}
	opts.logger().Info("sale recorded", "period", period.ID, "article", articleName, "total", sale.Total())

	result := SaleResult{
		PeriodID: period.ID,
		At:       ledger.FormatTimestamp(at),
		Article:  articleName,
		Quantity: sale.Quantity,
		Price:    sale.PricePerUnit,
		Total:    sale.Total(),
		Seller:   sale.Seller,
		Bill:     bill.String(),
		Purchase: sale.PurchaseID,
	}
	if formatter.JSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Sold %d × %s at %d = %d (bill %s)\n",
		result.Quantity, result.Article, result.Price, result.Total, result.Bill)
	return nil
}

// resolveArticle maps a command-line article to the catalog entry. An empty
// name or "-" is a sale without article. Without a catalog the name is
// taken as given, with no price.
func (s *session) resolveArticle(name string) (*pos.Article, error) {
	if name == "" || name == ledger.NoArticleName {
		return nil, nil
	}
	if s.catalog == nil {
		return &pos.Article{Name: name}, nil
	}
	if a, ok := s.catalog.FindArticle(name); ok {
		return a, nil
	}
	if a, ok := s.catalog.FindByBarcode(name); ok {
		return a, nil
	}
	return nil, fmt.Errorf("unknown article %q", name)
}
