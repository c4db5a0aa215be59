package main

import "github.com/pegsh/pegsh/cmd"

func main() {
	cmd.Execute()
}
