package main

import (
	"flag"
	"os"

	"github.com/getplenum/plenum-backend/cmd"
)

func main() {
	shouldRunMigrations := flag.Bool("migrations", false, "Run migrations")
	shouldRunServer := flag.Bool("server", false, "Run server")
	flag.Parse()

	if !*shouldRunMigrations && !*shouldRunServer {
		*shouldRunServer = true
	}

	if *shouldRunMigrations {
		if err := cmd.RunMigrations(); err != nil {
			os.Exit(1)
		}
	}
	if *shouldRunServer {
		if err := cmd.RunServer(); err != nil {
			os.Exit(1)
		}
	}
}
