package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ipfs/go-cid"
	flags "github.com/jessevdk/go-flags"

	"xdao.co/cryptodiff/cidutil"
	"xdao.co/cryptodiff/corpus"
	"xdao.co/cryptodiff/model"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/storage"
	"xdao.co/cryptodiff/storage/bundle"
	"xdao.co/cryptodiff/storage/casregistry"
)

func addCommands(p *flags.Parser, a *app) error {
	cmds := []struct {
		name, short, long string
		data              any
	}{
		{"import", "Write the regression corpus to the store",
			"Generates every named regression case and the null-signature sweep and writes their envelopes to the corpus store. Entries already present are left alone.",
			&importCmd{a: a}},
		{"replay", "Compare every corpus entry across the modules",
			"Decodes every entry in the corpus store, runs it through the selected modules and prints a report. Exits with status 1 when any entry produced a disagreement.",
			&replayCmd{a: a}},
		{"run", "Compare envelope files across the modules",
			"Runs each envelope file through the selected modules and prints one verdict per file. Exits with status 1 when any file produced a disagreement.",
			&runCmd{a: a}},
		{"decode", "Print the description of an envelope file", "", &decodeCmd{a: a}},
		{"encode", "Build an envelope from a JSON description",
			"Reads a structured description and writes the resulting envelope to the corpus store, or to --out.",
			&encodeCmd{a: a}},
		{"describe", "List the generated cases without writing them", "", &describeCmd{a: a}},
		{"modules", "List the selected modules and their operations", "", &modulesCmd{a: a}},
		{"stores", "List the corpus store backends and their options", "", &storesCmd{a: a}},
		{"export", "Write the corpus store to a tar bundle", "", &exportCmd{a: a}},
		{"import-bundle", "Copy the entries of a tar bundle into the store", "", &importBundleCmd{a: a}},
	}
	for _, c := range cmds {
		if _, err := p.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			return err
		}
	}
	return nil
}

func noArgs(name string, args []string) error {
	if len(args) != 0 {
		return usageError(fmt.Sprintf("%s: unexpected arguments %q", name, args))
	}
	return nil
}

type importCmd struct {
	Prefix string `long:"prefix" description:"Only write cases whose name starts with this prefix"`

	a *app
}

func (c *importCmd) Execute(args []string) error {
	if err := noArgs("import", args); err != nil {
		return err
	}
	cases, err := corpus.Generate(c.a.reg)
	if err != nil {
		return err
	}
	cases = filterCases(cases, c.Prefix)

	store, closeFn, err := c.a.openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	written, err := corpus.NewWriter(store).Import(c.a.ctx, cases)
	c.a.log.logger().Infof("Wrote %d of %d cases", len(written), len(cases))
	if perr := c.a.printJSON(model.FromWritten(written)); perr != nil {
		return perr
	}
	return err
}

func filterCases(cases []corpus.Case, prefix string) []corpus.Case {
	if prefix == "" {
		return cases
	}
	out := cases[:0:0]
	for _, cs := range cases {
		if strings.HasPrefix(cs.Name, prefix) {
			out = append(out, cs)
		}
	}
	return out
}

type replayCmd struct {
	Parallel int `short:"j" long:"parallel" description:"Entries compared at once (default: GOMAXPROCS)"`

	a *app
}

func (c *replayCmd) Execute(args []string) error {
	if err := noArgs("replay", args); err != nil {
		return err
	}
	ex, err := c.a.executor()
	if err != nil {
		return err
	}
	store, closeFn, err := c.a.openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	rep, err := corpus.Replay(c.a.ctx, store, ex, corpus.ReplayOptions{Parallel: c.Parallel})
	if err != nil {
		return err
	}
	if err := c.a.printJSON(model.FromReport(rep, model.ComplianceMode(c.a.cfg.Mode.String()))); err != nil {
		return err
	}
	if rep.Disagree > 0 {
		return errFindings
	}
	return nil
}

type runCmd struct {
	Args struct {
		Files []string `positional-arg-name:"file" required:"1"`
	} `positional-args:"yes"`

	a *app
}

func (c *runCmd) Execute(_ []string) error {
	ex, err := c.a.executor()
	if err != nil {
		return err
	}
	verdicts := make([]model.Verdict, 0, len(c.Args.Files))
	disagree := false
	for _, path := range c.Args.Files {
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		v, err := corpus.Check(c.a.ctx, ex, b)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if f := v.Finding(); f != nil {
			disagree = true
			c.a.log.logger().Warnf("%s: %v", path, f)
		}
		verdicts = append(verdicts, model.FromVerdict(v))
	}
	if err := c.a.printJSON(verdicts); err != nil {
		return err
	}
	if disagree {
		return errFindings
	}
	return nil
}

type decodeCmd struct {
	Args struct {
		File string `positional-arg-name:"file" required:"yes"`
	} `positional-args:"yes"`

	a *app
}

func (c *decodeCmd) Execute(_ []string) error {
	b, err := os.ReadFile(c.Args.File)
	if err != nil {
		return err
	}
	env, err := operation.DecodeEnvelope(b)
	if err != nil {
		return err
	}
	return c.a.printJSON(model.FromEnvelope(c.a.reg, cidutil.Filename(b), env))
}

type encodeCmd struct {
	Kind   string `short:"k" long:"kind" required:"yes" description:"Operation name, e.g. Digest or BignumCalc_Mod_SECP256K1"`
	Target string `long:"target" description:"Module to dispatch to first (default: none)"`
	Out    string `short:"o" long:"out" description:"Write the envelope to this file instead of the store"`
	Args   struct {
		File string `positional-arg-name:"description.json" required:"yes"`
	} `positional-args:"yes"`

	a *app
}

func (c *encodeCmd) Execute(_ []string) error {
	k, ok := operation.ParseKind(c.Kind)
	if !ok {
		return usageError(fmt.Sprintf("unknown operation %q", c.Kind))
	}
	raw, err := os.ReadFile(c.Args.File)
	if err != nil {
		return err
	}
	desc, err := operation.ParseDescription(raw)
	if err != nil {
		return err
	}
	op, err := operation.FromDescription(c.a.reg, k, desc)
	if err != nil {
		return err
	}
	env := operation.Envelope{Op: op}
	if c.Target != "" {
		m, ok := c.a.reg.ModuleByName(c.Target)
		if !ok {
			return usageError(fmt.Sprintf("unknown module %q", c.Target))
		}
		env.Module = m.ID
	}
	b := env.Encode()
	name := cidutil.Filename(b)

	if c.Out != "" {
		if err := writeFileAtomic(c.Out, b); err != nil {
			return err
		}
	} else {
		store, closeFn, err := c.a.openStore()
		if err != nil {
			return err
		}
		defer closeFn()
		if name, err = corpus.NewWriter(store).WriteBytes(b); err != nil {
			return err
		}
	}
	return c.a.printJSON(model.FromEnvelope(c.a.reg, name, env))
}

// writeFileAtomic replaces path with data by renaming a synced temporary file
// from the same directory, so readers see the old file or the whole new one.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".encode-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

type describeCmd struct {
	Prefix string `long:"prefix" description:"Only list cases whose name starts with this prefix"`

	a *app
}

func (c *describeCmd) Execute(args []string) error {
	if err := noArgs("describe", args); err != nil {
		return err
	}
	cases, err := corpus.Generate(c.a.reg)
	if err != nil {
		return err
	}
	return c.a.printJSON(model.FromCases(filterCases(cases, c.Prefix)))
}

type modulesCmd struct {
	a *app
}

func (c *modulesCmd) Execute(args []string) error {
	if err := noArgs("modules", args); err != nil {
		return err
	}
	mods, err := c.a.modules()
	if err != nil {
		return err
	}
	return c.a.printJSON(model.FromModules(mods))
}

type storesCmd struct {
	a *app
}

func (c *storesCmd) Execute(args []string) error {
	if err := noArgs("stores", args); err != nil {
		return err
	}
	for _, b := range casregistry.List(casregistry.UsageCLI) {
		if b.Description == "" {
			fmt.Fprintf(c.a.out, "%s\n", b.Name)
		} else {
			fmt.Fprintf(c.a.out, "%s\t%s\n", b.Name, b.Description)
		}
		for _, o := range b.Options() {
			if o.Default == "" {
				fmt.Fprintf(c.a.out, "  --store-opt %s=...\t%s\n", o.Name, o.Usage)
				continue
			}
			fmt.Fprintf(c.a.out, "  --store-opt %s=...\t%s (default %s)\n", o.Name, o.Usage, o.Default)
		}
	}
	return nil
}

type exportCmd struct {
	NoIndex bool `long:"no-index" description:"Omit index.json"`
	Args    struct {
		File string `positional-arg-name:"bundle.tar" required:"yes"`
	} `positional-args:"yes"`

	a *app
}

func (c *exportCmd) Execute(_ []string) error {
	store, closeFn, err := c.a.openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	ids, err := storage.List(store)
	if err != nil {
		return err
	}
	labels, err := c.caseLabels(ids)
	if err != nil {
		return err
	}

	f, err := os.Create(c.Args.File)
	if err != nil {
		return err
	}
	if err := bundle.Export(f, store, ids, bundle.ExportOptions{Labels: labels, IncludeIndex: !c.NoIndex}); err != nil {
		_ = f.Close()
		_ = os.Remove(c.Args.File)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	c.a.log.logger().Infof("Exported %d entries to %s", len(ids), c.Args.File)
	return nil
}

// caseLabels names the exported entries that are generated regression cases.
func (c *exportCmd) caseLabels(ids []cid.Cid) (map[string]cid.Cid, error) {
	cases, err := corpus.Generate(c.a.reg)
	if err != nil {
		return nil, err
	}
	present := make(map[cid.Cid]bool, len(ids))
	for _, id := range ids {
		present[id] = true
	}
	labels := map[string]cid.Cid{}
	for _, cs := range cases {
		id, err := cidutil.EntryCID(cs.Envelope().Encode())
		if err != nil {
			return nil, err
		}
		if present[id] {
			labels[cs.Name] = id
		}
	}
	return labels, nil
}

type importBundleCmd struct {
	IgnoreUnknown bool `long:"ignore-unknown" description:"Skip tar entries that are not corpus entries"`
	Args          struct {
		File string `positional-arg-name:"bundle.tar" required:"yes"`
	} `positional-args:"yes"`

	a *app
}

func (c *importBundleCmd) Execute(_ []string) error {
	store, closeFn, err := c.a.openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	f, err := os.Open(c.Args.File)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := bundle.ImportWithOptions(f, store, bundle.ImportOptions{IgnoreUnknown: c.IgnoreUnknown}); err != nil {
		return err
	}

	ids, err := storage.List(store)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if n, err := cidutil.FilenameOf(id); err == nil {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return c.a.printJSON(names)
}
