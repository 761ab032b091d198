package main

import "github.com/atikulmunna/logbrowser/internal/cmd"

func main() {
	cmd.Execute()
}
