package main

import "github.com/Bitlatte/pyguide/cmd"

func main() {
	cmd.Execute()
}
