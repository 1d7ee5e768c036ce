package main

import (
	"github.com/spf13/cobra"

	"github.com/chatgraph/chatgraph/internal/parse"
	"github.com/chatgraph/chatgraph/internal/scan"
	"github.com/chatgraph/chatgraph/internal/tui"
)

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <path|glob>",
		Short: "Browse parsed threads interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := scan.Expand(args[0])
			if err != nil {
				return err
			}

			var items []tui.Item
			for _, fi := range files {
				parser, err := parse.ForFormat(fi.Format)
				if err != nil {
					return err
				}
				thread, err := parser.Parse(fi.Path)
				if err != nil {
					return err
				}
				items = append(items, tui.Item{Path: fi.Path, Format: fi.Format, Thread: thread})
			}

			return tui.Run(items)
		},
	}
}
