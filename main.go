package main

import "github.com/sacsbd/sacs-tui/internal/cli"

func main() {
	cli.Execute()
}
