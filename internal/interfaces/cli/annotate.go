package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/textselect/pkg/types/span"
)

func newAnnotateCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "annotate <context>",
		Short: "Detect and classify all spans in context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := openContainer(opts)
			if err != nil {
				return err
			}
			defer ct.Close()

			context := args[0]
			annotations := ct.Annotate(context)

			return printResult(cmd.OutOrStdout(), opts.OutputFormat, annotations,
				func(w io.Writer) {
					if len(annotations) == 0 {
						fmt.Fprintln(w, "no annotations")
						return
					}
					for _, a := range annotations {
						best, _ := a.Classification.Best()
						fmt.Fprintf(w, "[%3d, %3d) %-10s %.4f  %s\n",
							a.Span.First, a.Span.Last, best.Collection, best.Score,
							color.CyanString("%q", span.Substring(context, a.Span)))
					}
				})
		},
	}
}
