package main

import "chardiff/cmd"

func main() {
	cmd.Execute()
}
