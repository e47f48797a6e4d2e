package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/carlosnayan/prisma-go-inputs/internal/errors"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the schema.prisma and its input grammar",
		Long: `Validates schema.prisma and builds every input schema derived from it:
  - Checks syntax and relations
  - Checks compound keys and foreign keys
  - Builds every filter, write and argument schema once`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runValidate(opts *RootOptions, out, errOut io.Writer) error {
	env, err := opts.load(errOut)
	if err != nil {
		return err
	}

	relPath := displayPath(env.schemaPath)
	fmt.Fprintf(out, "%s\n\n", Info("Prisma schema loaded from "+relPath))

	reg, err := env.registry()
	if err != nil {
		fmt.Fprintln(out, Warning("Prisma schema validation errors:"))
		fmt.Fprintln(out)
		problems := strings.Split(strings.ReplaceAll(err.Error(), "\n", "; "), "; ")
		for i, p := range problems {
			fmt.Fprintf(out, "  %d. %s\n", i+1, p)
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Validation Error Count: %d\n", len(problems))
		return fmt.Errorf("invalid schema")
	}
	if err := reg.Warm(); err != nil {
		if perrors.IsCyclicConstruction(err) {
			return fmt.Errorf("input grammar has a construction cycle: %w", err)
		}
		return fmt.Errorf("input grammar: %w", err)
	}

	fmt.Fprintf(out, "%s\n", Success(fmt.Sprintf("The schema at %s is valid 🚀", relPath)))
	fmt.Fprintf(out, "%s\n", Info(fmt.Sprintf("%d input schemas for %d models", len(reg.Names()), len(reg.Catalog().Models()))))
	return nil
}

// displayPath returns path relative to the working directory when it lies
// below it.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
