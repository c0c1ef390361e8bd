package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
)

var payCmd = &cobra.Command{
	Use:   "pay",
	Short: "Send XLM to another account",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		amount, _ := cmd.Flags().GetString("amount")

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		source, err := s.source(from)
		if err != nil {
			return err
		}

		out := s.dapp.SendPayment(cmd.Context(), types.PaymentRequest{
			Source:      source,
			Destination: to,
			Amount:      amount,
		})
		return printOutcome(cmd, s, out)
	},
}

func init() {
	rootCmd.AddCommand(payCmd)
	payCmd.Flags().String("from", "", "source account (defaults to the local key)")
	payCmd.Flags().String("to", "", "destination account")
	payCmd.Flags().String("amount", "", "amount in XLM, e.g. 10.5")
	_ = payCmd.MarkFlagRequired("to")
	_ = payCmd.MarkFlagRequired("amount")
}
