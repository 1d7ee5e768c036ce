package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chatgraph/chatgraph/internal/parse"
	"github.com/chatgraph/chatgraph/internal/render"
	"github.com/chatgraph/chatgraph/internal/scan"
)

func dumpCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump <path|glob>",
		Short: "Parse chat exports and print them without touching the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := scan.Expand(args[0])
			if err != nil {
				return err
			}

			width := 0
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				width = w
			}

			for _, fi := range files {
				parser, err := parse.ForFormat(fi.Format)
				if err != nil {
					return err
				}
				thread, err := parser.Parse(fi.Path)
				if err != nil {
					return err
				}

				switch format {
				case "debug":
					fmt.Print(render.Debug(thread))
				case "json":
					out, err := render.JSON(thread)
					if err != nil {
						return err
					}
					fmt.Println(out)
				case "pretty":
					fmt.Print(render.Conversation(fi.Path, thread, render.Options{Width: width}))
				default:
					return fmt.Errorf("unknown format: %s", format)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "pretty", "Output format: debug, json, or pretty")
	return cmd
}
