package main

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decred/slog"

	"xdao.co/cryptodiff/cidutil"
	"xdao.co/cryptodiff/storage"
	"xdao.co/cryptodiff/storage/casregistry"
	"xdao.co/cryptodiff/storage/localfs"
)

func TestServeThroughRegistryClient(t *testing.T) {
	dir := t.TempDir()
	local, err := localfs.New(dir)
	if err != nil {
		t.Fatal(err)
	}
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, lis, local, 0, slog.Disabled) }()

	remote, closeFn, err := casregistry.OpenWithConfig("grpc", casregistry.UsageCLI, map[string]string{
		"target":  lis.Addr().String(),
		"timeout": "5s",
	})
	if err != nil {
		t.Fatalf("open grpc store: %v", err)
	}

	data := []byte("envelope bytes")
	id, err := remote.Put(data)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	name, err := cidutil.FilenameOf(id)
	if err != nil || name != cidutil.Filename(data) {
		t.Fatalf("Put returned %s (%v)", id, err)
	}
	if !local.Has(id) {
		t.Fatalf("entry did not reach the served store")
	}
	ids, err := storage.List(remote)
	if err != nil || len(ids) != 1 || ids[0] != id {
		t.Fatalf("List = %v, %v", ids, err)
	}

	_ = closeFn()
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("serve: %v", err)
	}
}

func TestListStores(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := run(context.Background(), []string{"--list-stores"}, &out, &errOut); code != 0 {
		t.Fatalf("exit %d: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "localfs") || strings.Contains(out.String(), "grpc") {
		t.Fatalf("daemon stores:\n%s", out.String())
	}
}

func TestBadStoreOption(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"--store-opt", "dir", "--debuglevel", "off"}, &out, &errOut)
	if code != 2 {
		t.Fatalf("exit %d, want 2", code)
	}
}

func TestStoreConfigRejectsClientBackend(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(cfgPath, []byte(`{"backends":[{"name":"grpc","config":{"target":"127.0.0.1:1"}}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"--store-config", cfgPath}, &out, &errOut)
	if code != 2 || !strings.Contains(errOut.String(), "not supported in this binary") {
		t.Fatalf("exit %d: %s", code, errOut.String())
	}
}
