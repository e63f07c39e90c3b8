package main

import "docref/internal/cli"

func main() {
	cli.Execute()
}
