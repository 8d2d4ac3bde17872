package main

import (
	"os"

	"github.com/osvaldoandrade/jsonlvalidate/pkg/jsonlvalidate"
)

func main() {
	os.Exit(jsonlvalidate.Execute())
}
