package main

import "github.com/pagepulse/pagepulse/internal/cli"

func main() {
	cli.Execute()
}
