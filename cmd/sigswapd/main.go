package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/sigswap"
	sigswapd "github.com/iov-one/sigswap/cmd/sigswapd/app"
	"github.com/iov-one/sigswap/commands/server"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	home = flag.String("home", filepath.Join(os.ExpandEnv("$HOME"), ".sigswapd"),
		"node directory holding config/genesis.json and the state database")
	logLevel = flag.String("log_level", "info", "lowest level logged: debug, info, error or none")
)

// command runs with the arguments following its name.
type command struct {
	name    string
	summary string
	run     func(logger log.Logger, args []string) error
}

var commands = []command{
	{"init", "write the app_state of config/genesis.json", func(logger log.Logger, args []string) error {
		return server.InitCmd(sigswapd.GenInitOptions, logger, *home, args)
	}},
	{"start", "serve the application over an abci socket", func(logger log.Logger, args []string) error {
		return server.StartCmd(sigswapd.GenerateApp, logger, *home, args)
	}},
	{"keygen", "generate a swap secret and its swap id", func(_ log.Logger, args []string) error {
		return sigswapd.KeygenCmd(os.Stdout, args)
	}},
	{"sign", "produce the redeem signature of a swap", func(_ log.Logger, args []string) error {
		return sigswapd.SignCmd(os.Stdout, args)
	}},
	{"validate", "load genesis files into a scratch store", func(_ log.Logger, args []string) error {
		return server.ValidateGenesis(sigswapd.Initializers(), args)
	}},
	{"version", "print the version", func(log.Logger, []string) error {
		fmt.Println(sigswap.Version())
		return nil
	}},
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "usage: sigswapd [flags] <command> [args]\n\ncommands:\n")
	fmt.Fprintf(out, "  %-9s %s\n", "help", "print this message")
	for _, c := range commands {
		fmt.Fprintf(out, "  %-9s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(out, "\nflags:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	level, err := log.AllowLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stdout)), level).
		With("module", "sigswap")

	name, args := flag.Arg(0), flag.Args()[1:]
	if name == "help" {
		usage()
		return
	}
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if err := c.run(logger, args); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %+v\n", name, err)
			os.Exit(1)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
	usage()
	os.Exit(2)
}
