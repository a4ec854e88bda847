package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

func main() {
	bin, err := exec.LookPath("beadview")
	if err != nil {
		fmt.Fprintln(os.Stderr, "bdv: beadview not found on PATH")
		os.Exit(1)
	}
	if err := syscall.Exec(bin, append([]string{"beadview"}, os.Args[1:]...), os.Environ()); err != nil {
		fmt.Fprintf(os.Stderr, "bdv: %v\n", err)
		os.Exit(1)
	}
}
