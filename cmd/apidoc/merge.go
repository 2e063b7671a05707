package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Gobd/apidoc"
	"github.com/Gobd/apidoc/openapi"
	"github.com/spf13/cobra"
)

func newMergeCmd(a *app) *cobra.Command {
	var (
		output string
		asYAML bool
	)
	cmd := &cobra.Command{
		Use:   "merge FILE...",
		Short: "Merge documents into one",
		Long: `Merge combines the paths and components of every document. Other
top-level fields are taken from the last document setting them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs := make([]apidoc.Object, 0, len(args))
			for _, file := range args {
				tree, err := openapi.ReadTree(file)
				if err != nil {
					return err
				}
				a.logger.Debug("read document", "file", file)
				docs = append(docs, tree)
			}

			doc, err := openapi.Decode(cmd.Context(), apidoc.Merge(docs...))
			if err != nil {
				return err
			}
			ext := strings.ToLower(filepath.Ext(output))
			var b []byte
			if asYAML || ext == ".yaml" || ext == ".yml" {
				b, err = openapi.MarshalYAML(doc)
			} else {
				b, err = openapi.MarshalJSON(doc)
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			if err := os.WriteFile(output, b, 0o644); err != nil {
				return err
			}
			a.logger.Info("wrote merged document", "file", output, "documents", len(docs))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, stdout when empty")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "write YAML")
	_ = cmd.MarkFlagFilename("output", "yaml", "yml", "json")
	return cmd
}
