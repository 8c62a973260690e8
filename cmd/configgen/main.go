package main

import (
	"flag"
	"log"
	"os"

	"github.com/danmuck/deadswitch/internal/config"
)

const defaultPath = "cmd/deadswitchd/config.toml"

func main() {
	output := flag.String("output", defaultPath, "output path for the wallet config template")
	force := flag.Bool("force", false, "overwrite an existing config file")
	stdout := flag.Bool("stdout", false, "print the template instead of writing it")
	validate := flag.String("validate", "", "validate an existing config file and exit")
	flag.Parse()

	switch {
	case *validate != "":
		cfg, err := config.Load(*validate)
		if err != nil {
			log.Fatal(err)
		}
		custodyCfg := cfg.CustodyConfig()
		log.Printf("valid: owner=%s heirs=%d threshold=%s window=%s",
			custodyCfg.Owner.Hex(), len(cfg.Wallet.Heirs), custodyCfg.InactivityThreshold, custodyCfg.DisputeWindow)
	case *stdout:
		data, err := config.Render(config.Example())
		if err != nil {
			log.Fatal(err)
		}
		if _, err := os.Stdout.Write(data); err != nil {
			log.Fatal(err)
		}
	default:
		if err := config.WriteTemplate(*output, *force); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote wallet config template to %s", *output)
	}
}
