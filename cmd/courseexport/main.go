package main

import (
	"log"
	"os"
)

// ============================================================
// courseexport CLI
// ============================================================

func main() {
	log.SetFlags(0)
	log.SetPrefix("courseexport: ")

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
