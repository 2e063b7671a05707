package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gobd/apidoc"
	"github.com/Gobd/apidoc/openapi"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check the structure, OpenAPI rules and examples of documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed int
			for _, file := range args {
				if err := validateFile(cmd.Context(), file); err != nil {
					a.logger.Error("invalid document", "file", file, "error", err)
					failed++
					continue
				}
				a.logger.Info("valid document", "file", file)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", file)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents invalid", failed, len(args))
			}
			return nil
		},
	}
}

func validateFile(ctx context.Context, file string) error {
	tree, err := openapi.ReadTree(file)
	if err != nil {
		return err
	}
	doc := apidoc.Object(tree)
	if err := apidoc.ValidateDocument(doc); err != nil {
		return err
	}
	if _, err := openapi.Decode(ctx, tree); err != nil {
		return err
	}
	if err := apidoc.CheckExamples(doc); err != nil {
		return errors.Join(errors.New("examples do not match their schemas"), err)
	}
	return nil
}
