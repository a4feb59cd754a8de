package main

import "github.com/iksnae/secpipe/cmd"

func main() {
	cmd.Execute()
}
