// Command corpusd serves a corpus store over gRPC so replay workers on other
// hosts can share one corpus. Clients select it with
// "cryptodiff --store grpc --store-opt target=<host:port>".
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/decred/slog"
	flags "github.com/jessevdk/go-flags"
	"google.golang.org/grpc"

	"xdao.co/cryptodiff/storage"
	"xdao.co/cryptodiff/storage/casconfig"
	"xdao.co/cryptodiff/storage/casregistry"
	"xdao.co/cryptodiff/storage/grpccas"

	_ "xdao.co/cryptodiff/storage/localfs"
)

type config struct {
	Listen      string   `long:"listen" default:"127.0.0.1:7777" description:"Address to listen on"`
	DebugLevel  string   `short:"d" long:"debuglevel" default:"info" description:"Logging level {trace, debug, info, warn, error, critical, off}"`
	Store       string   `long:"store" default:"localfs" description:"Corpus store backend"`
	StoreOpts   []string `long:"store-opt" default:"dir=corpus" description:"Store backend option as key=value; may be repeated"`
	StoreConfig string   `long:"store-config" description:"JSON store configuration; overrides --store and --store-opt"`
	MaxMsgBytes int      `long:"max-msg-bytes" description:"Largest accepted gRPC message in bytes (0: grpc default)"`
	ListStores  bool     `long:"list-stores" description:"List the store backends and exit"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, out io.Writer, errOut io.Writer) int {
	var cfg config
	parser := flags.NewParser(&cfg, flags.HelpFlag)
	parser.Name = "corpusd"
	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Fprintln(out, ferr.Message)
			return 0
		}
		fmt.Fprintln(errOut, err)
		return 2
	}

	if cfg.ListStores {
		for _, b := range casregistry.List(casregistry.UsageDaemon) {
			fmt.Fprintf(out, "%s\t%s\n", b.Name, b.Description)
		}
		return 0
	}

	backend := slog.NewBackend(errOut)
	log := backend.Logger("CRPD")
	lvl, ok := slog.LevelFromString(cfg.DebugLevel)
	if !ok {
		fmt.Fprintf(errOut, "corpusd: invalid debug level %q\n", cfg.DebugLevel)
		return 2
	}
	log.SetLevel(lvl)

	cas, closeFn, err := openStore(cfg)
	if err != nil {
		log.Errorf("Unable to open store: %v", err)
		return 2
	}
	if closeFn != nil {
		defer closeFn()
	}

	lis, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		log.Errorf("Unable to listen: %v", err)
		return 1
	}
	log.Infof("Serving %s store on %s", cfg.Store, lis.Addr())

	if err := serve(ctx, lis, cas, cfg.MaxMsgBytes, log); err != nil {
		log.Errorf("%v", err)
		return 1
	}
	return 0
}

func openStore(cfg config) (storage.CAS, func() error, error) {
	if cfg.StoreConfig != "" {
		c, err := casconfig.LoadFile(cfg.StoreConfig)
		if err != nil {
			return nil, nil, err
		}
		return c.Open(casregistry.UsageDaemon)
	}
	opts := make(map[string]string, len(cfg.StoreOpts))
	for _, kv := range cfg.StoreOpts {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, nil, fmt.Errorf("--store-opt %q: want key=value", kv)
		}
		opts[k] = v
	}
	return casregistry.OpenWithConfig(cfg.Store, casregistry.UsageDaemon, opts)
}

// serve runs the corpus service on lis until ctx is done, then drains
// in-flight calls.
func serve(ctx context.Context, lis net.Listener, cas storage.CAS, maxMsgBytes int, log slog.Logger) error {
	opts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(logCalls(log))}
	if maxMsgBytes > 0 {
		opts = append(opts, grpc.MaxRecvMsgSize(maxMsgBytes), grpc.MaxSendMsgSize(maxMsgBytes))
	}
	s := grpc.NewServer(opts...)
	grpccas.RegisterCASServer(s, &grpccas.Server{CAS: cas})

	errc := make(chan error, 1)
	go func() { errc <- s.Serve(lis) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Infof("Shutting down")
		s.GracefulStop()
		<-errc
		return nil
	}
}

func logCalls(log slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			log.Debugf("%s failed after %v: %v", info.FullMethod, time.Since(start), err)
		} else {
			log.Tracef("%s done in %v", info.FullMethod, time.Since(start))
		}
		return resp, err
	}
}
