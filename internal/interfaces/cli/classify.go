package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/textselect/pkg/types/span"
)

func newClassifyCmd(opts *RootOptions) *cobra.Command {
	var hintURL, hintEmail bool

	cmd := &cobra.Command{
		Use:   "classify <context> <first> <last>",
		Short: "Classify the selected span of context",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := parseSpanArgs(args[1], args[2])
			if err != nil {
				return err
			}
			ct, err := openContainer(opts)
			if err != nil {
				return err
			}
			defer ct.Close()

			var flags span.InputFlags
			if hintURL {
				flags |= span.InputFlagURL
			}
			if hintEmail {
				flags |= span.InputFlagEmail
			}

			result := ct.ClassifyText(args[0], sel, flags)
			return printResult(cmd.OutOrStdout(), opts.OutputFormat, result,
				func(w io.Writer) {
					if len(result) == 0 {
						fmt.Fprintln(w, "no classification")
						return
					}
					for i, cs := range result {
						line := fmt.Sprintf("%-10s %.4f", cs.Collection, cs.Score)
						if i == 0 {
							line = color.GreenString(line)
						}
						fmt.Fprintln(w, line)
					}
				})
		},
	}

	cmd.Flags().BoolVar(&hintURL, "url", false, "hint: the selection is known to be a URL")
	cmd.Flags().BoolVar(&hintEmail, "email", false, "hint: the selection is known to be an e-mail address")
	return cmd
}
