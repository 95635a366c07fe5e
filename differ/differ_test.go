package differ

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"

	"xdao.co/cryptodiff/compliance"
	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/modules/decred"
	"xdao.co/cryptodiff/modules/gostd"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

// fake is a scripted module.
type fake struct {
	id      repository.ModuleID
	name    string
	kinds   []operation.Kind
	modular bool
	attempt func(ctx context.Context, op operation.Operation) module.Result
	calls   int
}

func (f *fake) ID() repository.ModuleID { return f.id }
func (f *fake) Name() string            { return f.name }
func (f *fake) Capabilities() module.Capabilities {
	return module.NewCapabilities(f.kinds...)
}
func (f *fake) SupportsModularBignumCalc() bool { return f.modular }
func (f *fake) Attempt(ctx context.Context, op operation.Operation) module.Result {
	f.calls++
	return f.attempt(ctx, op)
}

func answering(id repository.ModuleID, name string, v component.Value) *fake {
	return &fake{
		id:    id,
		name:  name,
		kinds: []operation.Kind{operation.KindBignumCalc, operation.KindBignumCalcMod25519},
		attempt: func(context.Context, operation.Operation) module.Result {
			return module.Value(v)
		},
	}
}

func unsupported(id repository.ModuleID, name string) *fake {
	f := answering(id, name, nil)
	f.attempt = func(context.Context, operation.Operation) module.Result {
		return module.Unsupported("no")
	}
	return f
}

func calcEnv(bn ...string) operation.Envelope {
	op := &operation.BignumCalc{CalcOp: repository.CalcAdd}
	copy(op.BN[:], bn)
	return operation.Envelope{Op: op}
}

func compare(t *testing.T, env operation.Envelope, opts Options, mods ...module.Module) *Verdict {
	t.Helper()
	v, err := New(mods, opts).Compare(context.Background(), env)
	if err != nil {
		t.Fatalf("Compare: %v\n%s", err, spew.Sdump(v))
	}
	return v
}

func TestAgreeOnNormalizedBignums(t *testing.T) {
	v := compare(t, calcEnv("1", "2"), Options{},
		answering(1, "a", component.Bignum("7")),
		answering(2, "b", component.Bignum("007")),
		answering(3, "c", component.Bignum("7")),
	)
	if v.State != StateAgree || len(v.Classes) != 1 || len(v.Classes[0].Modules) != 3 {
		t.Fatalf("verdict:\n%s", spew.Sdump(v.State, v.Classes))
	}
	if v.Finding() != nil {
		t.Fatal("agreement produced a finding")
	}
}

func TestDisagreeProducesFinding(t *testing.T) {
	env := calcEnv("1", "2")
	v := compare(t, env, Options{},
		answering(1, "a", component.Bignum("3")),
		answering(2, "b", component.Bignum("4")),
		answering(3, "c", component.Bignum("3")),
	)
	if v.State != StateDisagree {
		t.Fatalf("state = %s", v.State)
	}
	f := v.Finding()
	if f == nil {
		t.Fatal("no finding")
	}
	if len(f.Classes) != 2 || strings.Join(f.Classes[0].Modules, ",") != "a,c" || f.Classes[1].Modules[0] != "b" {
		t.Fatalf("classes:\n%s", spew.Sdump(f.Classes))
	}
	if f.Description["calcOp"] != "1" || f.Description["bn1"] != "1" {
		t.Fatalf("description = %v", f.Description)
	}
	if !strings.HasPrefix(f.Envelope, "0500000000000000") {
		t.Fatalf("envelope = %s", f.Envelope)
	}
	if !strings.Contains(f.String(), "[b]: 4") {
		t.Fatalf("finding text:\n%s", f)
	}
}

func TestKindMismatchIsDisagreement(t *testing.T) {
	v := compare(t, calcEnv(), Options{},
		answering(1, "a", component.Bignum("1")),
		answering(2, "b", component.Bool(true)),
	)
	if v.State != StateDisagree {
		t.Fatalf("state = %s", v.State)
	}
}

func TestSymmetry(t *testing.T) {
	values := []component.Value{component.Bignum("5"), component.Bignum("05"), component.Bignum("6")}
	for i := range values {
		for j := range values {
			ab := compare(t, calcEnv(), Options{}, answering(1, "a", values[i]), answering(2, "b", values[j]))
			ba := compare(t, calcEnv(), Options{}, answering(2, "b", values[j]), answering(1, "a", values[i]))
			if ab.State != ba.State {
				t.Errorf("%s vs %s: %s one way, %s the other", values[i], values[j], ab.State, ba.State)
			}
		}
	}
}

func TestUnsupportedNeutrality(t *testing.T) {
	base := []module.Module{
		answering(1, "a", component.Bignum("1")),
		answering(2, "b", component.Bignum("2")),
	}
	want := compare(t, calcEnv(), Options{}, base...).State

	incapable := &fake{id: 4, name: "digest-only", kinds: []operation.Kind{operation.KindDigest}}
	withExtra := append(append([]module.Module(nil), base...), unsupported(3, "none"), incapable)
	got := compare(t, calcEnv(), Options{}, withExtra...)
	if got.State != want {
		t.Fatalf("state %s, want %s", got.State, want)
	}
	if incapable.calls != 0 {
		t.Fatal("module dispatched a kind outside its capabilities")
	}
	if len(got.Outcomes) != 3 {
		t.Fatalf("%d outcomes, want 3", len(got.Outcomes))
	}
}

func TestInconclusive(t *testing.T) {
	for name, mods := range map[string][]module.Module{
		"none":            nil,
		"single":          {answering(1, "a", component.Bignum("1")), unsupported(2, "b")},
		"all unsupported": {unsupported(1, "a"), unsupported(2, "b")},
	} {
		v := compare(t, calcEnv(), Options{}, mods...)
		if v.State != StateInconclusive || v.Finding() != nil {
			t.Errorf("%s: state = %s", name, v.State)
		}
	}
}

func TestModularKindsNeedModularSupport(t *testing.T) {
	plain := answering(1, "plain", component.Bignum("1"))
	modular := answering(2, "modular", component.Bignum("1"))
	modular.modular = true
	env := operation.Envelope{Op: &operation.BignumCalc{Modulo: operation.Mod25519, CalcOp: repository.CalcAdd}}
	compare(t, env, Options{}, plain, modular)
	if plain.calls != 0 || modular.calls != 1 {
		t.Fatalf("calls: plain %d, modular %d", plain.calls, modular.calls)
	}
}

func TestTargetModuleFirst(t *testing.T) {
	env := calcEnv()
	env.Module = 3
	v := compare(t, env, Options{},
		answering(1, "a", component.Bignum("1")),
		answering(2, "b", component.Bignum("1")),
		answering(3, "c", component.Bignum("1")),
	)
	var order []string
	for _, o := range v.Outcomes {
		order = append(order, o.Module)
	}
	if got := strings.Join(order, ","); got != "c,a,b" {
		t.Fatalf("dispatch order %s", got)
	}
}

func TestTimeoutCountsAsUnsupported(t *testing.T) {
	slow := answering(3, "slow", component.Bignum("9"))
	slow.attempt = func(ctx context.Context, _ operation.Operation) module.Result {
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		return module.Value(component.Bignum("9"))
	}
	v := compare(t, calcEnv(), Options{Timeout: 20 * time.Millisecond},
		answering(1, "a", component.Bignum("1")),
		answering(2, "b", component.Bignum("1")),
		slow,
	)
	if v.State != StateAgree {
		t.Fatalf("state = %s", v.State)
	}
	last := v.Outcomes[2]
	if !last.TimedOut || last.Result.Status != module.StatusUnsupported {
		t.Fatalf("slow outcome:\n%s", spew.Sdump(last))
	}
}

func TestPanicIsFault(t *testing.T) {
	boom := answering(3, "boom", nil)
	boom.attempt = func(context.Context, operation.Operation) module.Result { panic("bad state") }
	mods := []module.Module{
		answering(1, "a", component.Bignum("1")),
		answering(2, "b", component.Bignum("1")),
		boom,
	}

	v := compare(t, calcEnv(), Options{}, mods...)
	if v.State != StateAgree || len(v.Faults) != 1 || v.Faults[0].Module != "boom" {
		t.Fatalf("permissive verdict:\n%s", spew.Sdump(v.State, v.Faults))
	}

	v, err := New(mods, Options{Mode: compliance.Strict}).Compare(context.Background(), calcEnv())
	if !errors.Is(err, ErrFault) {
		t.Fatalf("strict error = %v", err)
	}
	if v == nil || v.State != StateAgree {
		t.Fatal("strict mode dropped the verdict")
	}
}

func TestOversizedOperandIsInconclusive(t *testing.T) {
	a := answering(1, "a", component.Bignum("1"))
	b := answering(2, "b", component.Bignum("2"))
	v := compare(t, calcEnv(strings.Repeat("9", 11)), Options{MaxBignumDigits: 10}, a, b)
	if v.State != StateInconclusive {
		t.Fatalf("state = %s", v.State)
	}
	if a.calls+b.calls != 0 {
		t.Fatal("modules dispatched an oversized operand")
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New([]module.Module{answering(1, "a", component.Bignum("1"))}, Options{}).Compare(ctx, calcEnv())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestRealBackendsAgree(t *testing.T) {
	mods := []module.Module{gostd.New(), decred.New()}
	for _, op := range []*operation.BignumCalc{
		{CalcOp: repository.CalcMul, BN: [4]string{"340282366920938463463374607431768211455", "340282366920938463463374607431768211455"}},
		{Modulo: operation.Mod2Exp256, CalcOp: repository.CalcInvMod, BN: [4]string{"12345"}},
		{Modulo: operation.ModSecp256k1, CalcOp: repository.CalcExpMod, BN: [4]string{"3", "1000003"}},
		{CalcOp: repository.CalcInvMod, BN: [4]string{"18446744073709551615", "340282366762482138434845932244680310781"}},
		{CalcOp: repository.CalcGCD, BN: [4]string{"18446744073709551615", "340282366762482138434845932244680310781"}},
		{CalcOp: repository.CalcExpMod, BN: [4]string{"3", "1000003", "340282366762482138434845932244680310781"}},
	} {
		v := compare(t, operation.Envelope{Op: op}, Options{}, mods...)
		if v.State != StateAgree {
			t.Errorf("%s op %d:\n%s", op.Kind(), op.CalcOp, spew.Sdump(v.Outcomes))
		}
	}
}

func TestEmptyValueIsFault(t *testing.T) {
	v := compare(t, calcEnv("1", "2"), Options{},
		answering(1, "a", component.Bignum("3")),
		answering(2, "b", nil))
	if v.State != StateInconclusive || len(v.Faults) != 1 || v.Faults[0].Module != "b" {
		t.Fatalf("verdict:\n%s", spew.Sdump(v))
	}
	if v.Outcomes[1].Result.Status != module.StatusFatal {
		t.Fatalf("outcome = %+v", v.Outcomes[1])
	}

	_, err := New([]module.Module{answering(2, "b", nil)}, Options{Mode: compliance.Strict}).Compare(context.Background(), calcEnv("1", "2"))
	if !errors.Is(err, ErrFault) {
		t.Fatalf("strict err = %v", err)
	}
}
