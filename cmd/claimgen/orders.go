package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newOrdersCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List the order ids of a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			var orders []string
			err := step(fmt.Sprintf("Listing %d orders", year), func() (string, error) {
				var err error
				orders, err = a.checker.Orders(cmd.Context(), year, credentials())
				return fmt.Sprintf("%d found", len(orders)), err
			})
			if err != nil {
				return err
			}

			for _, id := range orders {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "Order year")
	return cmd
}
