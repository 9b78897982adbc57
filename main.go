package main

import "github.com/jessicarod7/envsh/cmd"

func main() {
	cmd.Execute()
}
