package main

import "github.com/OpenTraceLab/symconv/cmd/symconv/cmd"

func main() {
	cmd.Execute()
}
