// Package corpus builds, persists and replays the regression corpus.
//
// The generator is a pure function of the registry it is given. Entries are
// stored as envelopes named by the hex sha1 of their bytes, so writing the
// same case twice leaves one file.
package corpus

import (
	"fmt"
	"strings"

	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

// Case is one generated operation with a short name and a reference to
// the defect it reproduces.
type Case struct {
	Name string
	Ref  string
	Op   operation.Operation
}

// Envelope returns the envelope persisted for c. Generated cases address
// every capable module.
func (c Case) Envelope() operation.Envelope {
	return operation.Envelope{Op: c.Op, Module: repository.ModuleWildcard}
}

type caseSpec struct {
	name string
	ref  string
	kind operation.Kind
	desc operation.Description
}

// NullSignatureRef is the defect the null-signature sweep reproduces: a
// verifier accepting r = s = 0.
const NullSignatureRef = "https://nvd.nist.gov/vuln/detail/CVE-2022-21449"

// SweepDigests are the digests every curve is swept with.
var SweepDigests = []repository.DigestID{
	repository.DigestNULL,
	repository.DigestSHA1,
	repository.DigestSHA256,
}

// Generate returns the hand-authored regression cases followed by the
// null-signature sweep.
func Generate(reg *repository.Registry) ([]Case, error) {
	if reg == nil {
		return nil, fmt.Errorf("corpus: nil registry")
	}
	out := make([]Case, 0, len(regressions))
	for _, s := range regressions {
		op, err := operation.FromDescription(reg, s.kind, s.desc)
		if err != nil {
			return nil, fmt.Errorf("corpus: case %s: %w", s.name, err)
		}
		out = append(out, Case{Name: s.name, Ref: s.ref, Op: op})
	}
	sweep, err := NullSignatureSweep(reg)
	if err != nil {
		return nil, err
	}
	return append(out, sweep...), nil
}

// NullSignatureSweep returns one ECDSA_Verify per (curve, digest) pair for
// every curve with a known generator and bit length. The public key is the
// generator, the signature is (0, 0) and the message is ceil(bits/8) bytes
// of 0xab. No valid verifier accepts any of them.
func NullSignatureSweep(reg *repository.Registry) ([]Case, error) {
	var out []Case
	for _, c := range reg.Curves() {
		if !c.HasGenerator() {
			continue
		}
		cleartext := strings.Repeat("ab", (c.Bits+7)/8)
		for _, id := range SweepDigests {
			dg, ok := reg.Digest(id)
			if !ok {
				return nil, fmt.Errorf("corpus: registry lacks digest %d", id)
			}
			d := operation.Description{
				"modifier":   "",
				"curveType":  c.Name,
				"cleartext":  cleartext,
				"digestType": dg.Name,
				"signature": map[string]any{
					"pub":       []any{c.Gx, c.Gy},
					"signature": []any{"0", "0"},
				},
			}
			op, err := operation.FromDescription(reg, operation.KindECDSAVerify, d)
			if err != nil {
				return nil, fmt.Errorf("corpus: null signature %s/%s: %w", c.Name, dg.Name, err)
			}
			out = append(out, Case{
				Name: fmt.Sprintf("ecdsa-null-signature/%s/%s", c.Name, dg.Name),
				Ref:  NullSignatureRef,
				Op:   op,
			})
		}
	}
	return out, nil
}
