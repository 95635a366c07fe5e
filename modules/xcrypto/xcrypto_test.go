package xcrypto

import (
	"context"
	"testing"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

func TestDigests(t *testing.T) {
	tests := []struct {
		digest repository.DigestID
		want   string
	}{
		{repository.DigestMD4, "a448017aaf21d8525fc10ae87aa6729d"},
		{repository.DigestSHA3_256, "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"},
		{repository.DigestKECCAK256, "4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45"},
		{repository.DigestBLAKE2B256, "bddd813c634239723171ef3fee98579b94964e3bb1cb3e427262c8c068d52319"},
		{repository.DigestBLAKE2S256, "508c5e8c327c14e2e1a72ba34eeb452f37458b209ed63a294d999b4c86675982"},
		{repository.DigestRIPEMD160, "8eb208f7e05d987a9b044a8e98c6b087f15a0bfc"},
	}
	m := New()
	for _, test := range tests {
		for _, mod := range [][]byte{nil, {1}, {0, 2, 9}} {
			op := &operation.Digest{Header: operation.Header{Modifier: mod}, Cleartext: []byte("abc"), DigestType: test.digest}
			r := m.Attempt(context.Background(), op)
			if r.Status != module.StatusValue {
				t.Fatalf("digest %d: status = %s", test.digest, r.Status)
			}
			if got := r.Value.(component.Digest).String(); got != test.want {
				t.Errorf("digest %d modifier %v: got %s, want %s", test.digest, mod, got, test.want)
			}
		}
	}
}

func TestUnsupported(t *testing.T) {
	m := New()
	for _, op := range []operation.Operation{
		&operation.Digest{DigestType: repository.DigestSHA256},
		&operation.Digest{DigestType: repository.DigestNULL},
		&operation.BignumCalc{CalcOp: repository.CalcAdd},
	} {
		if r := m.Attempt(context.Background(), op); r.Status != module.StatusUnsupported {
			t.Errorf("%s: status = %s", op.Kind(), r.Status)
		}
	}
	if m.Capabilities().Has(operation.KindBignumCalc) {
		t.Error("digest backend claims BignumCalc")
	}
}
