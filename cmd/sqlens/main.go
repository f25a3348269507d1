package main

import "github.com/tuannm99/sqlens/internal/cli"

func main() {
	cli.Execute()
}
