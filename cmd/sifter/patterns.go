package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cleanfeed/sifter/internal/catalog"
	"github.com/cleanfeed/sifter/internal/cli"
	"github.com/cleanfeed/sifter/internal/model"
)

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Inspect and validate the pattern catalog",
	}

	cmd.AddCommand(patternsListCmd())
	cmd.AddCommand(patternsValidateCmd())

	return cmd
}

func patternsListCmd() *cobra.Command {
	var patternsPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the patterns in the catalog, grouped by category",
		RunE: func(_ *cobra.Command, _ []string) error {
			cat := catalog.Default()
			if patternsPath != "" {
				var err error
				cat, err = catalog.LoadFile(patternsPath)
				if err != nil {
					return fmt.Errorf("failed to load pattern catalog: %w", err)
				}
			}

			for _, category := range cat.Categories() {
				kind := "implicit"
				if category.IsExplicit() {
					kind = "explicit"
				}
				fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("%s (%s)", category, kind)))
				for _, p := range cat.ByCategory(category) {
					line := fmt.Sprintf("  %-24s weight %.2f", p.Text, p.Weight)
					if p.Description != "" {
						line += "  " + cli.SubtleStyle.Render(p.Description)
					}
					fmt.Println(line)
				}
				fmt.Println()
			}

			fmt.Printf("%d patterns in %d categories\n", cat.Len(), len(cat.Categories()))
			return nil
		},
	}

	cmd.Flags().StringVar(&patternsPath, "patterns", "", "custom pattern catalog file (YAML)")

	return cmd
}

func patternsValidateCmd() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a pattern catalog file without loading it",
		RunE: func(_ *cobra.Command, _ []string) error {
			data, err := os.ReadFile(filePath)
			if err != nil {
				return fmt.Errorf("failed to read catalog file: %w", err)
			}

			var file struct {
				Patterns []model.Pattern `yaml:"patterns"`
			}
			if err := yaml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("failed to parse catalog file %s: %w", filePath, err)
			}

			report := catalog.Validate(file.Patterns)

			for _, msg := range report.Errors {
				fmt.Println(cli.ErrorStyle.Render("error: " + msg))
			}
			for _, msg := range report.Warnings {
				fmt.Println(cli.WarningStyle.Render("warning: " + msg))
			}

			fmt.Printf("%d/%d patterns valid, %d warnings\n",
				report.ValidPatterns, report.TotalPatterns, len(report.Warnings))

			if !report.Valid {
				return fmt.Errorf("catalog file %s is invalid", filePath)
			}
			fmt.Println(cli.SuccessStyle.Render("catalog is valid"))
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "catalog file to validate (YAML)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
