package iconmine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/gogpu/iconmine/asset"
	"github.com/gogpu/iconmine/blit"
	"github.com/gogpu/iconmine/internal/composite"
	imagebuf "github.com/gogpu/iconmine/internal/image"
	"github.com/gogpu/iconmine/internal/luminance"
	"github.com/gogpu/iconmine/internal/parallel"
	"github.com/gogpu/iconmine/internal/texture"
	"github.com/gogpu/iconmine/internal/variant"
)

// Extensions a Miner accepts, compared case-insensitively.
var iconExts = []string{".png", asset.DumpExt}

// Miner renders the icons of a Source. A Miner may be reused; runs do not
// share state other than the scratch target pool.
type Miner struct {
	src     asset.Source
	opts    options
	targets *blit.Pool
	buffers *imagebuf.Pool
}

// New creates a Miner reading from src.
func New(src asset.Source, opts ...Option) *Miner {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Miner{
		src:     src,
		opts:    o,
		targets: blit.NewPool(o.targetBudget),
		buffers: imagebuf.NewPool(o.workers),
	}
}

// Targets returns the scratch target pool. Its Stats show whether every
// target acquired during a run was released.
func (m *Miner) Targets() *blit.Pool { return m.targets }

// job is one icon to render.
type job struct {
	id   string
	role Role
}

// run holds the state of one Run call.
type run struct {
	m         *Miner
	sink      Sink
	extractor *texture.Extractor

	mu     sync.Mutex
	icons  map[string]*Icon
	report Report
}

// Run renders every resolved variant and hands the results to sink.
//
// Per-icon problems never stop the run: missing textures are listed in
// Report.Missing and failures in Report.Failures. Run returns an error only
// when enumeration fails, the sink rejects the catalog, or ctx is done. On
// cancellation icons not yet started are skipped, the catalog is not written
// and ctx.Err() is returned.
func (m *Miner) Run(ctx context.Context, sink Sink) (Report, error) {
	if sink == nil {
		return Report{}, ErrNilSink
	}
	log := Logger()

	names, err := m.src.Enumerate()
	if err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrEnumerate, err)
	}
	families := variant.Group(m.filter(names))

	r := &run{
		m:    m,
		sink: sink,
		extractor: texture.NewExtractor(texture.Config{
			Space:    m.opts.space,
			Targets:  m.targets,
			Buffers:  m.buffers,
			Blitters: m.opts.blitters,
			Logger:   log,
		}),
		icons: make(map[string]*Icon),
	}
	r.report.Families = len(families)

	jobs := m.jobs(families)
	log.Info("iconmine: run started",
		"families", len(families), "icons", len(jobs),
		"space", m.opts.space.String(), "workers", m.opts.workers)

	work := make([]func(), len(jobs))
	for i, j := range jobs {
		work[i] = func() { r.do(ctx, j) }
	}

	pool := parallel.NewWorkerPool(m.opts.workers)
	defer pool.Close()
	if err := pool.ExecuteAllContext(ctx, work); err != nil {
		return r.result(), err
	}

	entries := r.entries(families)
	if err := sink.WriteCatalog(ctx, entries); err != nil {
		return r.result(), fmt.Errorf("%w: %w", ErrCatalog, err)
	}

	report := r.result()
	log.Info("iconmine: run finished",
		"entries", len(entries), "icons", report.Icons,
		"missing", len(report.Missing), "failed", len(report.Failures),
		"targets", m.targets.Stats().String())
	return report, nil
}

// filter keeps identifiers under the prefix with an icon extension.
func (m *Miner) filter(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !hasPrefixFold(n, m.opts.prefix) {
			continue
		}
		ext := path.Ext(n)
		if !slices.ContainsFunc(iconExts, func(e string) bool { return strings.EqualFold(e, ext) }) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// jobs lists every identifier to render, each once, in family order.
func (m *Miner) jobs(families []variant.Family) []job {
	seen := make(map[string]bool)
	var jobs []job
	add := func(id string, role Role) {
		if seen[id] {
			return
		}
		seen[id] = true
		jobs = append(jobs, job{id: id, role: role})
	}
	for _, f := range families {
		add(f.Primary, RolePrimary)
		if f.HasSecondary() {
			add(f.Secondary, RoleSecondary)
		}
		if m.opts.allVariants {
			for _, id := range f.Members {
				add(id, RoleVariant)
			}
		}
	}
	return jobs
}

// do renders one icon and records the outcome.
func (r *run) do(ctx context.Context, j job) {
	log := Logger()
	defer func() {
		if p := recover(); p != nil {
			r.fail(j.id, fmt.Errorf("panic: %v", p))
		}
	}()

	icon, err := r.render(j)
	switch {
	case errors.Is(err, ErrMissingAsset):
		log.Info("iconmine: skipping missing asset", "icon", j.id)
		r.mu.Lock()
		r.report.Missing = append(r.report.Missing, j.id)
		r.mu.Unlock()
		return
	case err != nil:
		r.fail(j.id, err)
		return
	}

	if err := r.sink.WriteIcon(ctx, icon); err != nil {
		r.fail(j.id, fmt.Errorf("write icon: %w", err))
		return
	}

	r.mu.Lock()
	r.icons[j.id] = icon
	r.report.Icons++
	r.mu.Unlock()
}

func (r *run) fail(id string, err error) {
	ie := &IconError{Identifier: id, Err: err}
	Logger().Warn("iconmine: icon failed", "icon", id, "err", err)
	r.mu.Lock()
	r.report.Failures = append(r.report.Failures, ie)
	r.mu.Unlock()
}

// render loads, extracts, classifies and flattens one icon. The raster is
// released before the PNG is encoded.
func (r *run) render(j job) (*Icon, error) {
	o := r.m.opts
	log := Logger()

	tex, err := r.m.src.Load(j.id)
	if errors.Is(err, asset.ErrNotFound) || (err == nil && tex == nil) {
		return nil, ErrMissingAsset
	}
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	raster, err := r.extractor.Extract(tex)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	defer raster.Release()

	res := luminance.Classify(raster.Image(), o.space, luminance.Options{MinAlpha: o.minAlpha, Stride: o.stride})
	bg := o.light
	if res.Light {
		bg = o.dark
	}
	if res.Coverage < luminance.MinCoverage {
		log.Debug("iconmine: icon has no visible pixels", "icon", j.id)
	}
	log.Debug("iconmine: classified",
		"icon", j.id, "fast_path", raster.FastPath(),
		"luminance", res.Luminance, "coverage", res.Coverage, "light", res.Light)

	flat, err := composite.Over(raster.Image(), bg, o.space)
	if err != nil {
		return nil, fmt.Errorf("composite: %w", err)
	}
	raster.Release()

	std, ok := flat.ToStdImage().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("composite: unexpected output format %s", flat.Format())
	}
	png, err := flat.EncodeToBytes()
	if err != nil {
		return nil, err
	}

	return &Icon{
		Identifier: j.id,
		Name:       iconName(j.id),
		Width:      tex.Width(),
		Height:     tex.Height(),
		Light:      res.Light,
		Background: rgba(bg),
		Image:      std,
		PNG:        png,
		Role:       j.role,
	}, nil
}

// entries builds one Entry per family whose primary was rendered.
func (r *run) entries(families []variant.Family) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]Entry, 0, len(families))
	for _, f := range families {
		primary := r.icons[f.Primary]
		if primary == nil {
			continue
		}
		e := Entry{Primary: primary}
		if f.HasSecondary() {
			e.Secondary = r.icons[f.Secondary]
		}
		e.DisplayWidth, e.DisplayHeight = DisplaySize(primary.Width, primary.Height)
		entries = append(entries, e)
	}
	return entries
}

// result returns a copy of the report with lists in a stable order.
func (r *run) result() Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep := r.report
	rep.Missing = slices.Clone(rep.Missing)
	slices.Sort(rep.Missing)
	rep.Failures = slices.Clone(rep.Failures)
	slices.SortFunc(rep.Failures, func(a, b *IconError) int { return strings.Compare(a.Identifier, b.Identifier) })
	return rep
}
