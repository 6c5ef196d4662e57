package main

import "os"

func main() {
	ctx := &RuntimeContext{
		Args:   os.Args[1:],
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	os.Exit(Run(ctx))
}
