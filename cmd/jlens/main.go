package main

import "github.com/jlens/jlens/internal/cli"

func main() {
	cli.Execute()
}
