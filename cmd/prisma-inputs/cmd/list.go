package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

type listOptions struct {
	model  string
	filter string
}

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	lo := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the input schemas derived from schema.prisma",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, lo, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&lo.model, "model", "m", "", "Only list schemas of this model")
	cmd.Flags().StringVarP(&lo.filter, "filter", "f", "", "Only list schemas whose name contains this text")
	return cmd
}

func runList(opts *RootOptions, lo *listOptions, out, errOut io.Writer) error {
	env, err := opts.load(errOut)
	if err != nil {
		return err
	}
	reg, err := env.registry()
	if err != nil {
		return err
	}
	if lo.model != "" && reg.Catalog().Model(lo.model) == nil {
		return fmt.Errorf("model %q not found in %s", lo.model, displayPath(env.schemaPath))
	}

	var models []string
	for _, m := range reg.Catalog().Models() {
		models = append(models, m.Name)
	}

	count := 0
	for _, name := range reg.Names() {
		if lo.model != "" && ownerOf(name, models) != lo.model {
			continue
		}
		if lo.filter != "" && !strings.Contains(name, lo.filter) {
			continue
		}
		fmt.Fprintln(out, SchemaName(name))
		count++
	}
	fmt.Fprintf(errOut, "%s\n", Info(fmt.Sprintf("%d schemas", count)))
	return nil
}

// ownerOf returns the model whose name is the longest prefix of a schema
// name, or "" for shared schemas such as scalar filters.
func ownerOf(name string, models []string) string {
	owner := ""
	for _, m := range models {
		if strings.HasPrefix(name, m) && len(m) > len(owner) {
			owner = m
		}
	}
	return owner
}
