package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tillbook/internal/catalog"
	"github.com/roach88/tillbook/internal/pos"
)

// ValidationResult holds catalog validation results.
type ValidationResult struct {
	Path     string `json:"path"`
	Valid    bool   `json:"valid"`
	Articles int    `json:"articles"`
	Error    string `json:"error,omitempty"`
}

// NewCatalogCommand creates the catalog command and its subcommands.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect article catalogs",
		Long: `Validate and list article catalogs.

Catalogs are YAML (.yaml, .yml) or CUE (.cue) files with an "articles" list
of {name, barcode, selling_price}. CUE catalogs are checked against the
article schema, so constraints and unknown fields are reported with their
position.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a catalog without touching the ledger",
		Long: `Validate a catalog file. Defaults to --catalog.

Exit codes:
  0 - The catalog is valid
  1 - The catalog is invalid
  2 - Command error (no catalog given)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogValidate(rootOpts, catalogPath(rootOpts, args), cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "list [file]",
		Short:         "List catalog articles sorted by name",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogList(rootOpts, catalogPath(rootOpts, args), cmd)
		},
	})

	return cmd
}

func catalogPath(opts *RootOptions, args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return opts.Catalog
}

func runCatalogValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	if path == "" {
		return outputValidateError(formatter, ErrCodeNotFound, "no catalog given: pass a file or --catalog")
	}

	formatter.VerboseLog("Validating catalog %s", path)
	cat, err := catalog.Load(path)
	if err != nil {
		return outputValidationFailure(formatter, ValidationResult{Path: path, Error: err.Error()})
	}

	result := ValidationResult{Path: path, Valid: true, Articles: cat.Len()}
	if formatter.JSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %s: %d article(s)\n", path, result.Articles)
	return nil
}

func runCatalogList(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	if path == "" {
		return outputValidateError(formatter, ErrCodeNotFound, "no catalog given: pass a file or --catalog")
	}

	cat, err := catalog.Load(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeCatalog, "load catalog", err)
	}

	articles := make([]pos.Article, 0, cat.Len())
	for _, a := range cat.Articles() {
		articles = append(articles, *a)
	}

	if formatter.JSON() {
		return formatter.Success(articles)
	}

	for _, a := range articles {
		barcode := a.Barcode
		if barcode == "" {
			barcode = "-"
		}
		fmt.Fprintf(formatter.Writer, "%-24s %8d  %s\n", a.Name, a.SellingPrice, barcode)
	}
	return nil
}

// outputValidateError outputs a command-level error (exit code 2).
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationFailure outputs an invalid catalog (exit code 1).
func outputValidationFailure(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.JSON() {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeCatalog,
				Message: result.Error,
			},
		}
		if err := formatter.encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "catalog validation failed")
	}

	fmt.Fprintf(formatter.Writer, "✗ %s is invalid\n", result.Path)
	fmt.Fprintf(formatter.Writer, "  %s: %s\n", ErrCodeCatalog, result.Error)
	return NewExitError(ExitFailure, "catalog validation failed")
}
