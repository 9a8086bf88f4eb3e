package main

import "github.com/cwarner/routinepanel/cmd"

func main() {
	cmd.Execute()
}
