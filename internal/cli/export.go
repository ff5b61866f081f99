package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-scouting/pkg/export"
	"github.com/goliatone/go-scouting/pkg/storage"
)

func newExportCommand(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every saved match as one flat JSON array",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, handles, err := a.exportInputs()
			if err != nil {
				return err
			}
			batch, err := pipeline.FlattenAll(handles)
			if errors.Is(err, export.ErrNoRecords) {
				a.printf("No data\n")
				return nil
			}
			if err != nil {
				return err
			}
			if err := writeOutput(out, a.stdout, func(w io.Writer) error {
				return export.WriteBatch(w, batch)
			}); err != nil {
				return err
			}
			a.reportSkips(batch.Skipped)
			if out != "-" {
				a.printf("Exported %d matches to %s (%d skipped)\n", batch.Included(), out, len(batch.Skipped))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "matches_export.json", "output file, - for stdout")
	return cmd
}

func newBundleCommand(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Zip the raw saved match files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, handles, err := a.exportInputs()
			if err != nil {
				return err
			}
			if len(handles) == 0 {
				a.printf("No data\n")
				return nil
			}
			var result export.BundleResult
			if err := writeOutput(out, a.stdout, func(w io.Writer) error {
				var err error
				result, err = pipeline.BundleRaw(handles, w)
				return err
			}); err != nil {
				return err
			}
			a.reportSkips(result.Skipped)
			if out != "-" {
				a.printf("Bundled %d matches into %s (%d skipped)\n", result.Included(), out, len(result.Skipped))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "matches.zip", "output file, - for stdout")
	return cmd
}

func (a *app) exportInputs() (*export.Pipeline, []storage.Handle, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}
	handles, err := store.List()
	if err != nil {
		return nil, nil, err
	}
	pipeline, err := export.New(store, export.WithLogger(a.logger))
	if err != nil {
		return nil, nil, err
	}
	return pipeline, handles, nil
}

func (a *app) reportSkips(skipped []export.Skip) {
	for _, s := range skipped {
		fmt.Fprintf(a.stderr, "skipped %s: %v\n", s.Name, s.Err)
	}
}

// writeOutput streams write into path, or into stdout when path is "-". A
// failed write removes the partial file.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
