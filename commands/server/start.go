package server

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/sigswap/errors"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind  = "bind"
	flagDebug = "debug"
	flagStore = "store"
)

// Store backends accepted by the -store flag.
const (
	StoreIAVL = "iavl"
	StoreBolt = "bolt"
)

// StartOptions are the values of the start command flags.
type StartOptions struct {
	// Bind is the address the ABCI server listens on.
	Bind string
	// Debug returns full error information to the client.
	Debug bool
	// Store is the name of the commit store backend.
	Store string
}

func parseFlags(args []string) (StartOptions, error) {
	var opts StartOptions
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&opts.Bind, flagBind, "tcp://localhost:26658", "address server listens on")
	startFlags.BoolVar(&opts.Debug, flagDebug, false, "call stack returned on error")
	startFlags.StringVar(&opts.Store, flagStore, StoreIAVL, "commit store backend, iavl or bolt")
	if err := startFlags.Parse(args); err != nil {
		return opts, errors.Wrap(errors.ErrInput, err.Error())
	}
	switch opts.Store {
	case StoreIAVL, StoreBolt:
	default:
		return opts, errors.Wrapf(errors.ErrInput, "unknown store %q", opts.Store)
	}
	return opts, nil
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, logger log.Logger, opts StartOptions) (abci.Application, error)

// StartCmd initializes the application and serves it over an ABCI
// socket until the process is interrupted.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	// Generate the app in the proper dir
	app, err := gen(home, logger, opts)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", opts.Bind, "store", opts.Store)

	svr, err := server.NewServer(opts.Bind, "socket", app)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "cannot start server")
	}

	// Wait forever
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig
	logger.Info("Shutting down", "signal", s.String())
	return svr.Stop()
}
