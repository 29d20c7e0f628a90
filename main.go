package main

import "github.com/loreycode/cms-api/cmd"

func main() {
	cmd.Execute()
}
