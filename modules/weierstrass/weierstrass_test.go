package weierstrass

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"math/big"
	mrand "math/rand"
	"testing"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

func attempt(t *testing.T, op operation.Operation) module.Result {
	t.Helper()
	return New(nil).Attempt(context.Background(), op)
}

func mustValue(t *testing.T, r module.Result) component.Value {
	t.Helper()
	if r.Status != module.StatusValue {
		t.Fatalf("status = %s (%s)", r.Status, r.Reason)
	}
	return r.Value
}

func pt(x, y *big.Int) component.ECCPoint {
	return component.ECCPoint{X: component.BignumFromInt(x), Y: component.BignumFromInt(y)}
}

func TestDomainsHaveOrderN(t *testing.T) {
	m := New(nil)
	want := []repository.CurveID{
		repository.Secp192r1, repository.Secp224r1, repository.Secp256r1, repository.Secp384r1,
		repository.Secp521r1, repository.Secp256k1, repository.BLS12_381,
	}
	if len(m.domains) != len(want) {
		t.Fatalf("%d domains, want %d", len(m.domains), len(want))
	}
	for _, id := range want {
		d, ok := m.domains[id]
		if !ok {
			t.Fatalf("curve %d missing", id)
		}
		if !d.onCurve(d.g) {
			t.Errorf("curve %d: generator not on curve", id)
		}
		if id == repository.Secp521r1 {
			// Slow in affine coordinates; covered by the crypto/elliptic comparison.
			continue
		}
		if !d.mul(d.g, d.n).inf {
			t.Errorf("curve %d: n*G is not the identity", id)
		}
	}
}

func TestAgreesWithStdlib(t *testing.T) {
	rng := mrand.New(mrand.NewSource(256))
	for _, tc := range []struct {
		id repository.CurveID
		c  elliptic.Curve
	}{
		{repository.Secp224r1, elliptic.P224()},
		{repository.Secp256r1, elliptic.P256()},
		{repository.Secp384r1, elliptic.P384()},
	} {
		p := tc.c.Params()
		for i := 0; i < 5; i++ {
			k := new(big.Int).Rand(rng, new(big.Int).Sub(p.N, big.NewInt(1)))
			k.Add(k, big.NewInt(1))
			x, y := tc.c.ScalarBaseMult(k.Bytes())
			got := mustValue(t, attempt(t, &operation.ECCPrivateToPublic{CurveType: tc.id, Priv: k.String()}))
			if !got.Equal(pt(x, y)) {
				t.Fatalf("%s k=%s: public key %s", p.Name, k, got)
			}

			dx, dy := tc.c.Double(x, y)
			got = mustValue(t, attempt(t, &operation.ECCPointDbl{CurveType: tc.id, AX: x.String(), AY: y.String()}))
			if !got.Equal(pt(dx, dy)) {
				t.Fatalf("%s: double %s", p.Name, got)
			}

			sx, sy := tc.c.Add(x, y, p.Gx, p.Gy)
			got = mustValue(t, attempt(t, &operation.ECCPointAdd{CurveType: tc.id, AX: x.String(), AY: y.String(), BX: p.Gx.String(), BY: p.Gy.String()}))
			if !got.Equal(pt(sx, sy)) {
				t.Fatalf("%s: sum %s", p.Name, got)
			}

			m := new(big.Int).Rand(rng, p.N)
			mx, my := tc.c.ScalarMult(x, y, m.Bytes())
			got = mustValue(t, attempt(t, &operation.ECCPointMul{CurveType: tc.id, AX: x.String(), AY: y.String(), B: m.String()}))
			if !got.Equal(pt(mx, my)) {
				t.Fatalf("%s: product %s", p.Name, got)
			}
		}
	}
}

func TestECDSAVerify(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("cryptodiff")
	digest := sha256.Sum256(msg)
	r, s, err := ecdsa.Sign(rand.Reader, key, digest[:])
	if err != nil {
		t.Fatal(err)
	}
	op := &operation.ECDSAVerify{
		CurveType:  repository.Secp256r1,
		Cleartext:  msg,
		PubX:       key.X.String(),
		PubY:       key.Y.String(),
		SigR:       r.String(),
		SigS:       s.String(),
		DigestType: repository.DigestSHA256,
	}
	if got := mustValue(t, attempt(t, op)); !got.Equal(component.Bool(true)) {
		t.Fatal("valid signature rejected")
	}

	null := *op
	null.Cleartext = digest[:]
	null.DigestType = repository.DigestNULL
	if got := mustValue(t, attempt(t, &null)); !got.Equal(component.Bool(true)) {
		t.Fatal("valid signature over NULL digest rejected")
	}

	for name, mutate := range map[string]func(*operation.ECDSAVerify){
		"message":  func(o *operation.ECDSAVerify) { o.Cleartext = []byte("cryptodifF") },
		"r zero":   func(o *operation.ECDSAVerify) { o.SigR = "0" },
		"s order":  func(o *operation.ECDSAVerify) { o.SigS = elliptic.P256().Params().N.String() },
		"off key":  func(o *operation.ECDSAVerify) { o.PubY = "1" },
		"identity": func(o *operation.ECDSAVerify) { o.PubX, o.PubY = "0", "0" },
	} {
		bad := *op
		mutate(&bad)
		if got := mustValue(t, attempt(t, &bad)); !got.Equal(component.Bool(false)) {
			t.Errorf("%s: signature accepted", name)
		}
	}

	unsupported := *op
	unsupported.DigestType = repository.DigestBLAKE3
	if r := attempt(t, &unsupported); r.Status != module.StatusUnsupported {
		t.Errorf("blake3 status = %s", r.Status)
	}
}

func TestSecp256k1(t *testing.T) {
	got := mustValue(t, attempt(t, &operation.ECCPrivateToPublic{CurveType: repository.Secp256k1, Priv: "2"}))
	want := component.ECCPoint{
		X: "89565891926547004231252920425935692360644145829622209833684329913297188986597",
		Y: "12158399299693830322967808612713398636155367887041628176798871954788371653930",
	}
	if !got.Equal(want) {
		t.Fatalf("2G = %s", got)
	}
}

func TestBLS(t *testing.T) {
	c, _ := repository.Default().Curve(repository.BLS12_381)
	bls := repository.BLS12_381

	got := mustValue(t, attempt(t, &operation.BLSG1Add{CurveType: bls, AX: c.Gx, AY: c.Gy, BX: c.Gx, BY: c.Gy}))
	want := component.G1{
		X: "838589206289216005799424730305866328161735431124665289961769162861615689790485775997575391185127590486775437397838",
		Y: "3450209970729243429733164009999191867485184320918914219895632678707687208996709678363578245114137957452475385814312",
	}
	if !got.Equal(want) {
		t.Errorf("G1 2G = %s", got)
	}
	got = mustValue(t, attempt(t, &operation.BLSG1Mul{CurveType: bls, AX: c.Gx, AY: c.Gy, B: c.Order}))
	if !got.Equal(component.G1{X: "0", Y: "0"}) {
		t.Errorf("G1 rG = %s", got)
	}

	g2 := operation.G2Point{
		V: "352701069587466618187139116011060144890029952792775240219908644239793785735715026873347600343865175952761926303160",
		W: "3059144344244213709971259814753781636986470325476647558659373206291635324768958432433509563104347017837885763365758",
		X: "1985150602287291935568054521177171638300868978215655730859378665066344726373823718423869104263333984641494340347905",
		Y: "927553665492332455747201965776037880757740193453592970025027978793976877002675564980949289727957565575433344219582",
	}
	g2Double := component.G2{
		V: "3419974069068927546093595533691935972093267703063689549934039433172037728172434967174817854768758291501458544631891",
		W: "1586560233067062236092888871453626466803933380746149805590083683748120990227823365075019078675272292060187343402359",
		X: "678774053046495337979740195232911687527971909891867263302465188023833943429943242788645503130663197220262587963545",
		Y: "2374407843478705782611042739236452317510200146460567463070514850492917978226342495167066333366894448569891658583283",
	}
	got = mustValue(t, attempt(t, &operation.BLSG2Mul{CurveType: bls, A: g2, B: "2"}))
	if !got.Equal(g2Double) {
		t.Errorf("G2 2G = %s", got)
	}
	got = mustValue(t, attempt(t, &operation.BLSG2Add{CurveType: bls, A: g2, B: operation.G2Point{V: "0", W: "0", X: "0", Y: "0"}}))
	if !got.Equal(component.G2{V: component.Bignum(g2.V), W: component.Bignum(g2.W), X: component.Bignum(g2.X), Y: component.Bignum(g2.Y)}) {
		t.Errorf("G2 G+O = %s", got)
	}
	neg := mustValue(t, attempt(t, &operation.BLSG2Neg{CurveType: bls, A: g2})).(component.G2)
	sum := mustValue(t, attempt(t, &operation.BLSG2Add{CurveType: bls, A: g2, B: operation.G2Point{
		V: string(neg.V), W: string(neg.W), X: string(neg.X), Y: string(neg.Y),
	}}))
	if !sum.Equal(component.G2{V: "0", W: "0", X: "0", Y: "0"}) {
		t.Errorf("G2 G-G = %s", sum)
	}

	if r := attempt(t, &operation.BLSG1Neg{CurveType: repository.Secp256r1, AX: "0", AY: "0"}); r.Status != module.StatusUnsupported {
		t.Errorf("G1 on P-256: status = %s", r.Status)
	}
}

func TestUnsupportedCurves(t *testing.T) {
	for _, id := range []repository.CurveID{repository.X25519, repository.Ed448, 999} {
		op := &operation.ECCPrivateToPublic{CurveType: id, Priv: "1"}
		if r := attempt(t, op); r.Status != module.StatusUnsupported {
			t.Errorf("curve %d: status = %s", id, r.Status)
		}
	}
}
