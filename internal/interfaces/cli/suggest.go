package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/textselect/pkg/types/span"
)

func newSuggestCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <context> <first> <last>",
		Short: "Expand a clicked span to the best selection",
		Long:  "Expands the half-open codepoint span [first, last) of context to the\nsmartest selection the model can offer.  Indices the model cannot improve\nare echoed back unchanged.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			click, err := parseSpanArgs(args[1], args[2])
			if err != nil {
				return err
			}
			ct, err := openContainer(opts)
			if err != nil {
				return err
			}
			defer ct.Close()

			context := args[0]
			sel := ct.SuggestSelection(context, click)

			return printResult(cmd.OutOrStdout(), opts.OutputFormat,
				map[string]interface{}{"first": sel.First, "last": sel.Last},
				func(w io.Writer) {
					fmt.Fprintf(w, "[%d, %d) %s\n", sel.First, sel.Last,
						color.GreenString("%q", span.Substring(context, sel)))
				})
		},
	}
}
