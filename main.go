package main

import "github.com/notargets/goweno/cmd"

func main() {
	cmd.Execute()
}
