package main

import "github.com/rmoreas/benefits-portal/cmd"

func main() {
	cmd.Execute()
}
