package main

import "github.com/pratikshakalbhor/stellar-whitebelt-dapp/cmd/dapp-cli/cmd"

func main() {
	cmd.Execute()
}
