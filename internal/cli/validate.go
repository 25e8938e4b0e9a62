package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/xapparel/internal/catalog"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	File   string          `json:"file"`
	Valid  bool            `json:"valid"`
	Errors []catalog.Issue `json:"errors,omitempty"`
}

// newCatalogValidateCommand creates the catalog validate command.
func newCatalogValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [catalog-file]",
		Short: "Validate a catalog definition",
		Long: `Validate a catalog .cue file against the product schema.

Checks CUE syntax, required fields, rating and price ranges and
duplicate product IDs without opening the database. With no argument
the configured catalog (--catalog, XAPPAREL_CATALOG) is checked, or
the built-in catalog when none is configured.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(rootOpts, path, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if path == "" {
		cfg, err := resolveConfig(opts)
		if err != nil {
			return fail(formatter, WrapExitError(ExitCommandError, "invalid configuration", err).WithErrCode(ErrCodeConfig))
		}
		path = cfg.CatalogPath
	}

	data, name := catalog.Embedded(), catalog.EmbeddedFilename
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return outputValidateError(formatter, ErrCodeNotFound, fmt.Sprintf("catalog file not found: %s", path), nil)
		}
		name = path
	}

	formatter.VerboseLog("Validating %s (%d bytes)", name, len(data))

	if issues := catalog.Validate(data, name); len(issues) > 0 {
		return outputValidationErrors(formatter, name, issues)
	}
	return outputValidateSuccess(formatter, name)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, name string) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{File: name, Valid: true})
	}

	fmt.Fprintf(formatter.Writer, "✓ %s is valid\n", name)
	return nil
}

// outputValidateError outputs a single validation error.
func outputValidateError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// An unreadable catalog is a command-level error (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs every schema issue.
func outputValidationErrors(formatter *OutputFormatter, name string, issues []catalog.Issue) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{File: name, Valid: false, Errors: issues},
			Error: &CLIError{
				Code:    ErrCodeInvalidCatalog,
				Message: issues[0].Message,
			},
		}
		if err := formatter.encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
	}

	fmt.Fprintf(formatter.Writer, "✗ %s failed validation\n", name)
	fmt.Fprintln(formatter.Writer)

	for _, is := range issues {
		if is.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", is.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", ErrCodeInvalidCatalog, is.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
}
