package main

import "lookalike/cmd"

func main() {
	cmd.Execute()
}
