package grpccas

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"xdao.co/cryptodiff/storage"
	"xdao.co/cryptodiff/storage/casregistry"
)

var (
	flagTarget      string
	flagDialTimeout time.Duration
	flagTimeout     time.Duration
	flagMaxMsgBytes int
)

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "grpc",
		Description: "Remote corpus store served by corpusd",
		Usage:       casregistry.UsageCLI,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagTarget, "target", "", "corpusd address host:port")
			fs.DurationVar(&flagDialTimeout, "dial-timeout", 5*time.Second, "dial timeout")
			fs.DurationVar(&flagTimeout, "timeout", 0, "per-RPC timeout")
			fs.IntVar(&flagMaxMsgBytes, "max-msg-bytes", 0, "max gRPC message size in bytes (send+recv); 0 uses grpc defaults")
		},
		Open: func() (storage.CAS, func() error, error) {
			target := strings.TrimSpace(flagTarget)
			if target == "" {
				return nil, nil, fmt.Errorf("grpc: missing target option")
			}
			client, err := Dial(target, DialOptions{Timeout: flagDialTimeout, MaxMsgBytes: flagMaxMsgBytes})
			if err != nil {
				return nil, nil, err
			}
			client.Timeout = flagTimeout
			return client, client.Close, nil
		},
	})
}
