package main

import "github.com/mcoot/mcregbot/internal/cli"

func main() {
	cli.Execute()
}
