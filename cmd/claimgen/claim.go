package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/v0xg/claimgen/internal/domain"
)

func newClaimCmd() *cobra.Command {
	var (
		req         domain.ClaimRequest
		claimType   string
		profilePath string
	)

	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Generate a filled claim PDF with the order invoice attached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := domain.ParseClaimType(claimType)
			if err != nil {
				return err
			}
			req.ClaimType = ct
			req.Credentials = credentials()

			profile, err := loadProfile(profilePath)
			if err != nil {
				return err
			}
			req.Profile = profile

			if err := req.Validate(); err != nil {
				return err
			}

			a := newApp()
			defer a.close()

			var artifact domain.ClaimArtifact
			err = step(fmt.Sprintf("Building %s claim for order %s", ct.Program(), req.OrderID), func() (string, error) {
				var err error
				artifact, err = a.builder.Build(cmd.Context(), req)
				return artifact.Ref, err
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "✓ Saved to %s\n", artifact.File)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.OrderID, "order-id", "", "Order id, e.g. 111-2222222")
	f.StringVar(&req.ProductTitle, "title", "", "Product title")
	f.StringVar(&claimType, "type", "", "Claim type: hsa, fsa")
	f.StringVar(&req.OrderDate, "date", "", `Order date, e.g. "August 5, 2023"`)
	f.StringVar(&req.OrderTotal, "total", "", "Order total, e.g. $12.00")
	f.StringVar(&req.Price, "price", "", "Unit price")
	f.IntVar(&req.Quantity, "quantity", 1, "Quantity")
	f.StringVar(&profilePath, "profile", "profile.yaml", "Claimant profile (YAML)")
	for _, name := range []string{"order-id", "title", "type", "date", "total"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func loadProfile(path string) (domain.UserProfile, error) {
	var profile domain.UserProfile
	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return profile, nil
}
