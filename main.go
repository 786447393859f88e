package main

import (
	"github.com/auramicrolocs/storefront/cmd"
)

func main() {
	cmd.Start()
}
