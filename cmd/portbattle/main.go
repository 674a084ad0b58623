package main

import "github.com/andrescamacho/portbattle-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
