package main

import "github.com/fsdevblog/luffy-streaming/cmd/luffyctl/commands"

func main() {
	commands.Execute()
}
