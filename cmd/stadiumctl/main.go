package main

import "github.com/mcoot/stadiumdash/internal/cli"

func main() {
	cli.Execute()
}
