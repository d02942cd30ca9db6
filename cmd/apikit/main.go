package main

import "github.com/kbukum/apikit/internal/cli"

func main() {
	cli.Execute()
}
