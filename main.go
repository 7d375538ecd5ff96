package main

import "github.com/solthron/autopilot/cmd"

func main() {
	cmd.Execute()
}
