// Command cryptodiff builds, stores and replays a differential-testing corpus
// for cryptographic primitives.
//
// Usage:
//
//	cryptodiff [global options] import
//	cryptodiff [global options] replay [--parallel N]
//	cryptodiff [global options] run <envelope file>...
//	cryptodiff [global options] decode <envelope file>
//	cryptodiff [global options] encode --kind <operation> [--target <module>] [--out <file>] <description.json>
//	cryptodiff [global options] describe
//	cryptodiff [global options] modules
//	cryptodiff [global options] stores
//	cryptodiff [global options] export <bundle.tar>
//	cryptodiff [global options] import-bundle <bundle.tar>
//
// Results are printed as JSON on stdout. Logs go to stderr and, with
// --logfile, to a rotating file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	flags "github.com/jessevdk/go-flags"

	"xdao.co/cryptodiff/compliance"
	"xdao.co/cryptodiff/differ"
	"xdao.co/cryptodiff/model"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/repository"
	"xdao.co/cryptodiff/storage"
	"xdao.co/cryptodiff/storage/casconfig"
	"xdao.co/cryptodiff/storage/casregistry"

	_ "xdao.co/cryptodiff/modules/all"
	_ "xdao.co/cryptodiff/storage/grpccas"
	_ "xdao.co/cryptodiff/storage/localfs"
)

type config struct {
	DebugLevel      string          `short:"d" long:"debuglevel" default:"info" description:"Logging level {trace, debug, info, warn, error, critical, off}"`
	LogFile         string          `long:"logfile" description:"Also write the log to this file"`
	Modules         []string        `short:"m" long:"module" description:"Module to compare; may be repeated (default: every linked module)"`
	Timeout         time.Duration   `long:"timeout" default:"5s" description:"Per-module time limit for one operation"`
	MaxBignumDigits int             `long:"max-bignum-digits" default:"10000" description:"Skip operations with a longer bignum parameter"`
	Mode            compliance.Mode `long:"mode" default:"permissive" choice:"permissive" choice:"strict" description:"Treat module faults as findings (permissive) or as errors (strict)"`
	Store           string          `long:"store" default:"localfs" description:"Corpus store backend (see the stores command)"`
	StoreOpts       []string        `long:"store-opt" default:"dir=corpus" description:"Store backend option as key=value; may be repeated"`
	StoreConfig     string          `long:"store-config" description:"JSON store configuration; overrides --store and --store-opt"`
}

// errFindings marks a run that completed but found disagreements.
var errFindings = errors.New("disagreements found")

// usageError is a command-line mistake that flags cannot detect.
type usageError string

func (e usageError) Error() string { return string(e) }

// app is the state shared by the commands of one invocation.
type app struct {
	ctx    context.Context
	cfg    config
	out    io.Writer
	errOut io.Writer
	reg    *repository.Registry
	log    *logging
}

func main() {
	ctx := shutdownListener(os.Stderr)
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, out io.Writer, errOut io.Writer) int {
	a := &app{ctx: ctx, out: out, errOut: errOut, reg: repository.Default()}

	parser := flags.NewParser(&a.cfg, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "cryptodiff"
	if err := addCommands(parser, a); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return usageError("a command is required")
		}
		if err := a.setup(); err != nil {
			return err
		}
		defer a.log.close()
		return cmd.Execute(args)
	}

	_, err := parser.ParseArgs(args)
	if err == nil {
		return 0
	}
	var ferr *flags.Error
	var uerr usageError
	switch {
	case errors.As(err, &ferr) && ferr.Type == flags.ErrHelp:
		fmt.Fprintln(out, ferr.Message)
		return 0
	case errors.As(err, &ferr):
		fmt.Fprintln(errOut, ferr.Message)
		return 2
	case errors.As(err, &uerr):
		fmt.Fprintf(errOut, "cryptodiff: %v\n\n", uerr)
		parser.WriteHelp(errOut)
		return 2
	case errors.Is(err, errFindings):
		return 1
	}
	fmt.Fprintf(errOut, "cryptodiff: %v\n", model.FromError(err))
	return 1
}

func (a *app) setup() error {
	a.log = newLogging(a.errOut)
	if err := a.log.setLevel(a.cfg.DebugLevel); err != nil {
		a.log.close()
		return usageError(err.Error())
	}
	if a.cfg.LogFile != "" {
		if err := a.log.initRotator(a.cfg.LogFile); err != nil {
			a.log.close()
			return err
		}
	}
	return nil
}

// modules opens the selected modules in registry order.
func (a *app) modules() ([]module.Module, error) {
	mods, err := module.Open(a.reg, a.cfg.Modules...)
	if err != nil {
		return nil, fmt.Errorf("%w (linked: %s)", err, strings.Join(module.Names(), ", "))
	}
	return mods, nil
}

func (a *app) executor() (*differ.Executor, error) {
	mods, err := a.modules()
	if err != nil {
		return nil, err
	}
	if len(mods) == 0 {
		return nil, usageError("no modules selected")
	}
	return differ.New(mods, differ.Options{
		Timeout:         a.cfg.Timeout,
		MaxBignumDigits: a.cfg.MaxBignumDigits,
		Mode:            a.cfg.Mode,
	}), nil
}

// openStore opens the configured corpus store. The returned close function
// is never nil.
func (a *app) openStore() (storage.CAS, func() error, error) {
	var (
		cas     storage.CAS
		closeFn func() error
		err     error
	)
	if a.cfg.StoreConfig != "" {
		var c casconfig.Config
		c, err = casconfig.LoadFile(a.cfg.StoreConfig)
		if err != nil {
			return nil, nil, err
		}
		cas, closeFn, err = c.Open(casregistry.UsageCLI)
	} else {
		var opts map[string]string
		opts, err = parseStoreOpts(a.cfg.StoreOpts)
		if err != nil {
			return nil, nil, err
		}
		cas, closeFn, err = casregistry.OpenWithConfig(a.cfg.Store, casregistry.UsageCLI, opts)
	}
	if err != nil {
		return nil, nil, err
	}
	if closeFn == nil {
		closeFn = func() error { return nil }
	}
	return cas, closeFn, nil
}

func parseStoreOpts(kvs []string) (map[string]string, error) {
	opts := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, usageError(fmt.Sprintf("--store-opt %q: want key=value", kv))
		}
		opts[k] = v
	}
	return opts, nil
}

func (a *app) printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = a.out.Write(b)
	return err
}
