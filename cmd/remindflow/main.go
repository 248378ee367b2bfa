package main

import "github.com/sandeepkv93/remindflow/internal/cli"

func main() {
	cli.Execute()
}
