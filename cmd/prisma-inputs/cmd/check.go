package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/carlosnayan/prisma-go-inputs/inputs"
	"github.com/carlosnayan/prisma-go-inputs/schema"
)

type checkOptions struct {
	model  string
	kind   string
	op     string
	name   string
	format string
	print  bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand(opts *RootOptions) *cobra.Command {
	co := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Check a JSON or YAML input against a derived schema",
		Long: `Checks one input document. Use "-" to read standard input.

The target schema is chosen with one of:
  --model User --kind WhereUniqueInput per-model schema (UserWhereUniqueInput)
  --model User --op create            write operation, reports the variant
  --name UserCreateWithoutPostsInput  any schema by name`,
		Example: `  prisma-inputs check where.json --model Form --kind WhereInput
  prisma-inputs check data.yaml --model Form --op upsert --print`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, co, args[0], cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&co.model, "model", "m", "", "Model the input belongs to")
	f.StringVarP(&co.kind, "kind", "k", "", "Schema kind, for example WhereInput, WhereUniqueInput, CreateInput, FindManyArgs")
	f.StringVar(&co.op, "op", "", "Write operation: create, createMany, update, updateMany or upsert")
	f.StringVar(&co.name, "name", "", "Full schema name")
	f.StringVar(&co.format, "format", "", "Input format: json or yaml (default: from the file extension)")
	f.BoolVarP(&co.print, "print", "p", false, "Print the normalized input")
	return cmd
}

func runCheck(opts *RootOptions, co *checkOptions, file string, stdin io.Reader, out, errOut io.Writer) error {
	target, err := co.target()
	if err != nil {
		return err
	}

	data, err := readInput(file, stdin)
	if err != nil {
		return err
	}
	input, err := decodeInput(data, co.inputFormat(file))
	if err != nil {
		return err
	}

	env, err := opts.load(errOut)
	if err != nil {
		return err
	}
	reg, err := env.registry()
	if err != nil {
		return err
	}

	var result interface{}
	if co.op != "" {
		var m *inputs.Mutation
		m, err = reg.ParseMutation(co.model, inputs.Op(co.op), input)
		if err == nil {
			fmt.Fprintf(out, "%s %s\n", Success("✔"), fmt.Sprintf("%s %s accepted as %s", co.model, co.op, m.Variant))
			result = m
		}
	} else {
		if !reg.Has(target) {
			return fmt.Errorf("schema %q is not defined", target)
		}
		result, err = reg.ValidateName(target, input)
		if err == nil {
			fmt.Fprintf(out, "%s %s\n", Success("✔"), fmt.Sprintf("valid %s", target))
		}
	}
	if err != nil {
		return reportIssues(out, target, err)
	}

	if co.print {
		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("cannot encode normalized input: %w", err)
		}
		fmt.Fprintln(out, string(encoded))
	}
	return nil
}

// target returns the schema name selected by the flags.
func (co *checkOptions) target() (string, error) {
	switch {
	case co.name != "":
		if co.kind != "" || co.op != "" {
			return "", fmt.Errorf("--name cannot be combined with --kind or --op")
		}
		return co.name, nil
	case co.model == "":
		return "", fmt.Errorf("--model is required unless --name is given")
	case co.kind != "" && co.op != "":
		return "", fmt.Errorf("--kind and --op are mutually exclusive")
	case co.op != "":
		return co.model + " " + co.op, nil
	case co.kind != "":
		return inputs.Name(co.model, inputs.Kind(co.kind)), nil
	}
	return "", fmt.Errorf("one of --kind, --op or --name is required")
}

func (co *checkOptions) inputFormat(file string) string {
	if co.format != "" {
		return strings.ToLower(co.format)
	}
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

func readInput(file string, stdin io.Reader) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("cannot read input: %w", err)
	}
	return data, nil
}

// decodeInput decodes a document into the generic shape the validators
// accept: maps with string keys, slices and scalars.
func decodeInput(data []byte, format string) (interface{}, error) {
	switch format {
	case "json":
		return inputs.DecodeJSON(data)
	case "yaml":
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("cannot parse YAML input: %w", err)
		}
		return normalizeYAML(doc)
	}
	return nil, fmt.Errorf("unknown input format %q", format)
}

func normalizeYAML(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, e := range t {
			n, err := normalizeYAML(e)
			if err != nil {
				return nil, err
			}
			t[k] = n
		}
		return t, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("YAML key %v is not a string", k)
			}
			n, err := normalizeYAML(e)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case []interface{}:
		for i, e := range t {
			n, err := normalizeYAML(e)
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
		return t, nil
	case time.Time:
		return t.Format(time.RFC3339Nano), nil
	}
	return v, nil
}

func reportIssues(out io.Writer, target string, err error) error {
	var ve *schema.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	fmt.Fprintln(out, Warning(fmt.Sprintf("%s rejected:", target)))
	fmt.Fprintln(out)
	for i, issue := range ve.Issues {
		at := issue.Path.String()
		if at == "" {
			at = "(root)"
		}
		fmt.Fprintf(out, "  %d. %s %s\n", i+1, Prompt(at), issue.Err.Error())
	}
	if ve.Dropped > 0 {
		fmt.Fprintf(out, "  %s\n", Info(fmt.Sprintf("... %d more", ve.Dropped)))
	}
	fmt.Fprintln(out)
	return fmt.Errorf("input rejected with %d issue(s)", len(ve.Issues)+ve.Dropped)
}
