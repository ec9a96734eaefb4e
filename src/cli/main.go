package main

import "github.com/kalexmills/refrain/src/cli/cmd"

func main() {
	cmd.Execute()
}
