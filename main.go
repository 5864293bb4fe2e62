package main

import "github.com/bno1/X4FProjector/cmd"

func main() {
	cmd.Execute()
}
