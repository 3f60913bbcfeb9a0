package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/v0xg/claimgen/internal/domain"
)

func newCheckCmd() *cobra.Command {
	var (
		year   int
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Find the HSA and FSA eligible items of a year's orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("%w: format must be json or yaml, got %q", domain.ErrInvalidRequest, format)
			}

			a := newApp()
			defer a.close()

			var result *domain.EligibilityResult
			err := step(fmt.Sprintf("Checking %d orders", year), func() (string, error) {
				var err error
				result, err = a.checker.Check(cmd.Context(), year, credentials())
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%d HSA, %d FSA, %d skipped",
					len(result.HSAOrders), len(result.FSAOrders), len(result.Failures)), nil
			})
			if err != nil {
				return err
			}

			if output == "" {
				return writeResult(cmd.OutOrStdout(), result, format)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := writeResult(f, result, format); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "✓ Saved to %s\n", output)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "Order year")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func writeResult(w io.Writer, result *domain.EligibilityResult, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
