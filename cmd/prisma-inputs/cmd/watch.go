package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const watchDebounce = 300 * time.Millisecond

type watchOptions struct {
	input string
	check checkOptions
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(opts *RootOptions) *cobra.Command {
	wo := &watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-validate the schema, and optionally an input, on every change",
		Example: `  prisma-inputs watch
  prisma-inputs watch --input where.json --model Form --kind WhereInput`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, opts, wo, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&wo.input, "input", "i", "", "Input file to check after each change")
	f.StringVarP(&wo.check.model, "model", "m", "", "Model the input belongs to")
	f.StringVarP(&wo.check.kind, "kind", "k", "", "Schema kind of the input")
	f.StringVar(&wo.check.op, "op", "", "Write operation of the input")
	f.StringVar(&wo.check.name, "name", "", "Full schema name of the input")
	f.StringVar(&wo.check.format, "format", "", "Input format: json or yaml")
	return cmd
}

func runWatch(ctx context.Context, opts *RootOptions, wo *watchOptions, out, errOut io.Writer) error {
	env, err := opts.load(errOut)
	if err != nil {
		return err
	}
	files := []string{env.schemaPath}
	if wo.input == "-" {
		return fmt.Errorf("watch needs an input file, not standard input")
	}
	if wo.input != "" {
		if _, err := wo.check.target(); err != nil {
			return err
		}
		files = append(files, wo.input)
	}

	run := func() {
		if err := runValidate(opts, out, errOut); err != nil {
			fmt.Fprintf(out, "%s %v\n\n", Warning("✘"), err)
			return
		}
		if wo.input != "" {
			fmt.Fprintln(out)
			if err := runCheck(opts, &wo.check, wo.input, nil, out, errOut); err != nil {
				fmt.Fprintf(out, "%s %v\n\n", Warning("✘"), err)
			}
		}
	}

	run()
	fmt.Fprintf(out, "%s\n", Info("Watching for changes. Press Ctrl+C to stop."))
	return watchFiles(ctx, files, watchDebounce, func(changed string) {
		fmt.Fprintf(out, "\n%s %s\n\n", Prompt("↻"), Info(displayPath(changed)+" changed"))
		run()
	}, errOut)
}

// watchFiles calls onChange once per burst of writes to any of files and
// blocks until ctx is done. Directories are watched rather than the files
// themselves so that editors replacing a file on save are still seen.
func watchFiles(ctx context.Context, files []string, debounce time.Duration, onChange func(changed string), errOut io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to get absolute path: %w", err)
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	var pending <-chan time.Time
	changed := ""

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			changed = abs
			timer.Reset(debounce)
			pending = timer.C

		case <-pending:
			pending = nil
			onChange(changed)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(errOut, "%s %v\n", Warning("watch error:"), err)

		case <-ctx.Done():
			return nil
		}
	}
}
