package main

import (
	"fmt"
	"os"

	"xdao.co/cryptodiff/cidutil"
	"xdao.co/cryptodiff/operation"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: corpus_cid <envelope>...")
		os.Exit(2)
	}
	status := 0
	for _, path := range os.Args[1:] {
		b, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read: %v\n", err)
			status = 1
			continue
		}
		id, err := cidutil.EntryCID(b)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cid: %v\n", path, err)
			status = 1
			continue
		}
		kind := "undecodable"
		if env, err := operation.DecodeEnvelope(b); err == nil {
			kind = env.Op.Kind().String()
		}
		fmt.Printf("%s\t%s\t%s\t%s\n", cidutil.Filename(b), id, kind, path)
	}
	os.Exit(status)
}
