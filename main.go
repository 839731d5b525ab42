package main

import "github.com/Seann-Moser/latency-sampler/cmd"

func main() {
	cmd.Execute()
}
