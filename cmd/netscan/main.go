package main

import (
	"github.com/zan8in/gologger"
	"github.com/zan8in/netscan/internal/runner"
	"github.com/zan8in/netscan/pkg/config"
)

func main() {
	options, err := config.NewOptions()
	if err != nil {
		gologger.Fatal().Msg(err.Error())
	}

	if err := runner.New(options); err != nil {
		gologger.Fatal().Msg(err.Error())
	}
}
