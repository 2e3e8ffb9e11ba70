package main

import (
	"os"

	"github.com/11090815/x509cert/internal/certdump"
)

func main() {
	if err := certdump.Execute(); err != nil {
		os.Exit(1)
	}
}
