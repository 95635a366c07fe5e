package localfs

import (
	"flag"
	"fmt"

	"xdao.co/cryptodiff/storage"
	"xdao.co/cryptodiff/storage/casregistry"
)

var (
	flagLocalDir string
)

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "localfs",
		Description: "Corpus directory on the local filesystem",
		Usage:       casregistry.UsageCLI | casregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagLocalDir, "dir", "", "corpus directory")
		},
		Open: func() (storage.CAS, func() error, error) {
			if flagLocalDir == "" {
				return nil, nil, fmt.Errorf("localfs: missing dir option")
			}
			cas, err := New(flagLocalDir)
			return cas, nil, err
		},
	})
}
