package main

import "github.com/victor-lby/sos-cidadao-sub000/cmd"

func main() {
	cmd.Execute()
}
