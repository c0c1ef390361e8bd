package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Show the XLM balance of an account",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		var flag string
		if len(args) == 1 {
			flag = args[0]
		}
		address, err := s.source(flag)
		if err != nil {
			return err
		}

		balance, err := s.dapp.Balance(cmd.Context(), address)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s XLM\n", balance)
		return nil
	},
}

var nftTotalCmd = &cobra.Command{
	Use:   "nft-total",
	Short: "Show how many NFTs the contract has minted",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		source, err := s.source(from)
		if err != nil {
			return err
		}

		total, err := s.dapp.NFTTotal(cmd.Context(), source)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), total)
		return nil
	},
}

var nftsCmd = &cobra.Command{
	Use:   "nfts",
	Short: "List minted NFTs, or show one with --id",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		owner, _ := cmd.Flags().GetString("owner")
		id, _ := cmd.Flags().GetUint32("id")

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		source, err := s.source(from)
		if err != nil {
			return err
		}

		var nfts []types.NFT
		if id != 0 {
			nft, err := s.dapp.NFT(cmd.Context(), source, id)
			if err != nil {
				return err
			}
			nfts = append(nfts, *nft)
		} else {
			nfts, err = s.dapp.NFTs(cmd.Context(), source, owner)
			if err != nil {
				return err
			}
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tIMAGE\tOWNER")
		for _, n := range nfts {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", n.ID, n.Name, n.ImageID, n.Owner)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(nftTotalCmd)
	rootCmd.AddCommand(nftsCmd)
	nftTotalCmd.Flags().String("from", "", "funded account used as simulation source")
	nftsCmd.Flags().String("from", "", "funded account used as simulation source")
	nftsCmd.Flags().String("owner", "", "only list NFTs owned by this account")
	nftsCmd.Flags().Uint32("id", 0, "show a single NFT")
}
