package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/textselect/internal/model"
)

func newInspectCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [path]",
		Short: "Print a structural summary of a model image",
		Long:  "Parses a model image and prints its version and per-section topology\nwithout running any inference.  The path argument overrides --model.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.ModelPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("a model path is required, via --model or as an argument")
			}

			info, err := model.Inspect(path)
			if err != nil {
				return err
			}

			return printResult(cmd.OutOrStdout(), opts.OutputFormat, info,
				func(w io.Writer) {
					fmt.Fprintf(w, "image version %d, %d section(s)\n\n", info.Version, len(info.Sections))
					table := tablewriter.NewWriter(w)
					table.SetHeader([]string{"Tag", "Layers", "In", "Out", "Buckets", "Window", "Regexes", "Collections"})
					for _, s := range info.Sections {
						table.Append([]string{
							s.Tag,
							strconv.Itoa(s.LayerCount),
							strconv.Itoa(s.InputDim),
							strconv.Itoa(s.OutputDim),
							strconv.Itoa(s.BucketCount),
							fmt.Sprintf("%d/%d", s.ClickWindowL, s.ClickWindowR),
							strconv.Itoa(s.RegexCount),
							strings.Join(s.Collections, ","),
						})
					}
					table.Render()
				})
		},
	}
}
