package main

import "vault-sync/cmd"

func main() {
	cmd.Execute()
}
