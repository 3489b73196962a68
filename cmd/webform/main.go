package main

import "github.com/ISmeneger/webform-e2e/internal/cli"

func main() {
	cli.Execute()
}
