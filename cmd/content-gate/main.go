package main

import cmd "github.com/rohmanhakim/content-gate/internal/cli"

func main() {
	cmd.Execute()
}
