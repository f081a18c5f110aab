package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devmaxde/notion-client/pkg/variant"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Decode page or list documents and report the first error in each",
		Args:  cobra.MinimumNArgs(1),
		RunE:  a.run(a.check),
	}
}

func (a *app) check(cmd *cobra.Command, args []string) error {
	docs, err := readDocuments(cmd, args)
	if err != nil {
		return err
	}

	results, batchErr := a.pipeline.DecodeDocuments(cmd.Context(), docs)

	out := cmd.OutOrStdout()
	failed := 0
	for _, r := range results {
		if r.OK() {
			fmt.Fprintf(out, "ok    %s (%s, %d pages)\n", r.Source, r.Kind, len(r.Pages))
			continue
		}
		failed++
		if path, ok := variant.PathOf(r.Err); ok {
			fmt.Fprintf(out, "FAIL  %s at %s: %v\n", r.Source, path, r.Err)
		} else {
			fmt.Fprintf(out, "FAIL  %s: %v\n", r.Source, r.Err)
		}
	}
	if batchErr != nil {
		// Each failure was printed above; the summary replaces the joined list.
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}
