package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"xdao.co/cryptodiff/cidutil"
	"xdao.co/cryptodiff/corpus"
	"xdao.co/cryptodiff/repository"
)

func main() {
	cases, err := corpus.Generate(repository.Default())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, c := range cases {
		env := c.Envelope().Encode()
		id, err := cidutil.EntryCID(env)
		if err != nil {
			panic(err)
		}
		fmt.Printf("name=%s\n", c.Name)
		if c.Ref != "" {
			fmt.Printf("ref=%s\n", c.Ref)
		}
		fmt.Printf("operation=%s\n", c.Op.Kind())
		fmt.Printf("file=%s\n", cidutil.Filename(env))
		fmt.Printf("cid=%s\n", id)
		fmt.Printf("envelope=%s\n\n", hex.EncodeToString(env))
	}
}
