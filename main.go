package main

import "github.com/rebroad/staden/cmd"

func main() {
	cmd.Execute() // initialize cobra commands
}
