package main

import "github.com/ardanlabs/blockcoin/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
