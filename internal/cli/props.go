package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPropsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "props FILE",
		Short: "List the properties of each page: name, type and id",
		Args:  cobra.ExactArgs(1),
		RunE:  a.run(a.props),
	}
}

func (a *app) props(cmd *cobra.Command, args []string) error {
	docs, err := readDocuments(cmd, args)
	if err != nil {
		return err
	}
	r := a.pipeline.DecodeDocument(cmd.Context(), docs[0])
	if r.Err != nil {
		return r.Err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for i, page := range r.Pages {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "page %s\t%q\n", page.ID, page.Title())
		for _, name := range page.Properties.Names() {
			v := page.Properties[name]
			fmt.Fprintf(w, "  %s\t%s\t%s\n", name, v.Type(), v.PropertyID())
		}
	}
	return w.Flush()
}
