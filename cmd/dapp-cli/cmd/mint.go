package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint an NFT on the configured contract",
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")
		name, _ := cmd.Flags().GetString("name")
		image, _ := cmd.Flags().GetString("image")

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		source, err := s.source(owner)
		if err != nil {
			return err
		}

		out := s.dapp.MintNFT(cmd.Context(), types.MintRequest{
			Owner:   source,
			Name:    name,
			ImageID: image,
		})
		return printOutcome(cmd, s, out)
	},
}

func init() {
	rootCmd.AddCommand(mintCmd)
	mintCmd.Flags().String("owner", "", "owner account (defaults to the local key)")
	mintCmd.Flags().String("name", "", "token name, a Soroban symbol")
	mintCmd.Flags().String("image", "IMG1", "image id")
	_ = mintCmd.MarkFlagRequired("name")
}
