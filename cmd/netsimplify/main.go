package main

import "netsimplify/cmd/netsimplify/cmd"

func main() {
	cmd.Execute()
}
