package runner

import (
	"fmt"

	"github.com/zan8in/netscan/pkg/config"
	"github.com/zan8in/netscan/pkg/log"
)

func ShowBanner() {
	title := "NAME:\n   " + log.LogColor.Banner("netscan") + " - v" + config.Version
	fmt.Println(title + "\n")
}

func ShowVersion() {
	fmt.Println("netscan v" + config.Version)
}
