package all

import (
	"testing"

	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/repository"
)

func TestEveryBackendRegistered(t *testing.T) {
	reg := repository.Default()
	mods, err := module.Open(reg)
	if err != nil {
		t.Fatal(err)
	}
	if len(mods) != 6 {
		t.Fatalf("opened %d modules, want 6", len(mods))
	}
	for _, m := range mods {
		info, ok := reg.Module(m.ID())
		if !ok {
			t.Errorf("module %s: id %d not in registry", m.Name(), m.ID())
			continue
		}
		if info.Name != m.Name() {
			t.Errorf("module id %d: registry name %q, backend name %q", m.ID(), info.Name, m.Name())
		}
		if len(m.Capabilities().Kinds()) == 0 {
			t.Errorf("module %s has no capabilities", m.Name())
		}
	}
}
