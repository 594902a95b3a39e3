package main

import (
	"github.com/projectdiscovery/gologger"

	"github.com/coregx/parsekit/internal/runner"
)

func main() {
	opts := runner.ParseFlags()
	if err := runner.Run(opts); err != nil {
		gologger.Fatal().Msgf("%v", err)
	}
}
