package cli

import (
	"github.com/spf13/cobra"

	"github.com/devmaxde/notion-client/internal/processors"
	"github.com/devmaxde/notion-client/pkg/notion"
	"github.com/devmaxde/notion-client/pkg/variant"
)

func newFmtCmd(a *app) *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Re-encode a page or list document as canonical JSON",
		Long: "fmt decodes the document and writes it back with sorted keys and absent\n" +
			"optional fields left out. Use - to read stdin.",
		Args: cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			indent := a.cfg.Output.Indent
			if compact {
				indent = ""
			}
			return a.format(cmd, args[0], indent)
		}),
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "Write compact JSON")
	return cmd
}

func (a *app) format(cmd *cobra.Command, path, indent string) error {
	docs, err := readDocuments(cmd, []string{path})
	if err != nil {
		return err
	}
	r := a.pipeline.DecodeDocument(cmd.Context(), docs[0])
	if r.Err != nil {
		return r.Err
	}

	var tree variant.Fields
	switch r.Kind {
	case processors.KindList:
		tree, err = notion.EncodePageList(*r.List)
	default:
		tree, err = notion.EncodePage(r.Pages[0])
	}
	if err != nil {
		return err
	}

	var data []byte
	if indent == "" {
		data, err = variant.Render(tree)
	} else {
		data, err = variant.RenderIndent(tree, indent)
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
