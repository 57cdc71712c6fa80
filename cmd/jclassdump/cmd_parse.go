package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/glennimoss/java-decompyler/format"
	"github.com/glennimoss/java-decompyler/java"
)

var log = commonlog.GetLogger("jclassdump")

func newParseCmd() *cobra.Command {
	var outputFormat string
	cmd := &cobra.Command{
		Use:   "parse <file.class>",
		Short: "Parse a .class file and print its raw structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			log.Debugf("parsing %s", filename)

			class, err := java.ParseClassFile(filename)
			if err != nil {
				return fmt.Errorf("parse class file: %w", err)
			}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewJSONEncoder(os.Stdout)
			case "java":
				encoder = format.NewJavaEncoder(os.Stdout)
			case "line":
				encoder = format.NewLineEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s (expected json, java, or line)", outputFormat)
			}

			if err := encoder.Encode(class); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format (json, java, line)")
	return cmd
}
