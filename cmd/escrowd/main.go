package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iov-one/custody"
	escrowd "github.com/iov-one/custody/cmd/escrowd/app"
	"github.com/iov-one/custody/commands/server"
)

var (
	flagHome = "home"
	varHome  *string
)

func helpMessage() {
	fmt.Println("escrowd")
	fmt.Println("          Pair escrow node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("start     Run the abci server")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.escrowd")

Environment: ESCROWD_HOME, ESCROWD_BIND, ESCROWD_DEBUG,
ESCROWD_LOG_LEVEL, ESCROWD_TRACE_FILE`)
}

func main() {
	conf, err := loadConfig()
	if err != nil {
		fmt.Printf("Error: %+v\n", err)
		os.Exit(1)
	}
	varHome = flag.String(flagHome, conf.Home, "directory to store files under")
	flag.CommandLine.Usage = helpMessage

	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	logger, err := conf.Logger(os.Stdout)
	if err != nil {
		fmt.Printf("Error: %+v\n", err)
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(escrowd.GenInitOptions, logger, *varHome, rest)
	case "start":
		if err = conf.InstallTracing(); err == nil {
			err = server.StartCmd(escrowd.GenerateApp, logger, *varHome, conf.StartOptions(), rest)
		}
	case "version":
		fmt.Println(custody.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}
