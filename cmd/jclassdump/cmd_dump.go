package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glennimoss/java-decompyler/format"
	"github.com/glennimoss/java-decompyler/java"
)

func newDumpCmd() *cobra.Command {
	var outputFormat string
	cmd := &cobra.Command{
		Use:   "dump <file.class>",
		Short: "Decompile a .class file into a source-level model and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			log.Debugf("dumping %s", filename)

			model, err := java.ClassModelFromFile(filename)
			if err != nil {
				return fmt.Errorf("parse class file: %w", err)
			}

			switch outputFormat {
			case "json":
				enc := format.NewJSONModelEncoder(os.Stdout)
				if err := enc.Encode(model); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
				fmt.Println()
			case "java":
				enc := format.NewJavaModelEncoder(os.Stdout)
				if err := enc.Encode(model); err != nil {
					return fmt.Errorf("encode java: %w", err)
				}
			case "line":
				enc := format.NewLineModelEncoder(os.Stdout)
				if err := enc.Encode(model); err != nil {
					return fmt.Errorf("encode line: %w", err)
				}
			default:
				return fmt.Errorf("unknown format: %s (expected json, java, or line)", outputFormat)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format (json, java, line)")
	return cmd
}
