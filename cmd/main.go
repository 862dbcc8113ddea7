package main

import "step-bot/internal/cli"

func main() {
	cli.Execute()
}
