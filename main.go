package main

import (
	"os"

	"covid-dashboard/cli"
)

func main() {
	os.Exit(int(cli.Run()))
}
