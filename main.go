package main

import "github.com/cowprotocol/token-lists/cmd"

func main() {
	cmd.Execute()
}
