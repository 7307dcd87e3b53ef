package rendering

import (
	"bytes"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/assessment-reports/internal/analytics"
	"github.com/jonathan/assessment-reports/internal/catalog"
	"github.com/jonathan/assessment-reports/internal/layout"
	"github.com/jonathan/assessment-reports/internal/logging"
	"github.com/jonathan/assessment-reports/internal/normalize"
	"github.com/jonathan/assessment-reports/internal/types"
)

// Author is written into every document's metadata.
const Author = "Assessment Reports"

// Kind identifies the document variant.
type Kind string

const (
	KindIndividual Kind = "individual"
	KindCouple     Kind = "couple"
)

// SurfaceFactory creates the drawing surface for one document.
type SurfaceFactory func(spec layout.PageSpec, meta layout.Metadata) layout.Surface

// PDF is the default SurfaceFactory.
func PDF(spec layout.PageSpec, meta layout.Metadata) layout.Surface {
	return layout.NewPDFSurface(spec, meta)
}

// Options configures a Renderer. Zero values pick defaults.
type Options struct {
	Page     layout.PageSpec
	Baseline analytics.Baseline
	// Icons resolves profile icons; nil renders every profile text-only.
	Icons   layout.IconSource
	Catalog *catalog.Catalog
	Logger  *logging.Logger
	Now     func() time.Time
	Surface SurfaceFactory
}

// Document is a finished report. It is never modified after it is returned.
type Document struct {
	ID        uuid.UUID
	Kind      Kind
	RecordID  string
	Title     string
	Pages     int
	Bytes     []byte
	CreatedAt time.Time
	Warnings  []normalize.Warning
}

// Renderer turns raw records into documents. It holds only read-only state and may
// be shared; every render builds its own engine, cursor and surface.
type Renderer struct {
	opts       Options
	log        *logging.Logger
	normalizer *normalize.Normalizer
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	if opts.Page.Width == 0 || opts.Page.Height == 0 {
		opts.Page = layout.Letter
	}
	if opts.Baseline.Overall == 0 && len(opts.Baseline.Sections) == 0 {
		opts.Baseline = analytics.DefaultBaseline()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Surface == nil {
		opts.Surface = PDF
	}
	log := logging.OrNop(opts.Logger)
	return &Renderer{
		opts:       opts,
		log:        log,
		normalizer: normalize.New(log).WithClock(opts.Now),
	}
}

// Normalizer exposes the renderer's input boundary.
func (r *Renderer) Normalizer() *normalize.Normalizer {
	return r.normalizer
}

func (r *Renderer) newEngine(doc *Document, subject string, theme layout.Theme) *layout.Engine {
	surface := r.opts.Surface(r.opts.Page, layout.Metadata{
		Title:     doc.Title,
		Author:    Author,
		Subject:   subject,
		CreatedAt: doc.CreatedAt,
	})
	return layout.NewEngine(surface, r.opts.Page, theme, r.opts.Icons)
}

func (r *Renderer) newDocument(kind Kind, recordID, title string, warnings []normalize.Warning) *Document {
	return &Document{
		ID:        uuid.New(),
		Kind:      kind,
		RecordID:  recordID,
		Title:     title,
		CreatedAt: r.opts.Now(),
		Warnings:  warnings,
	}
}

// finish closes the document. Only stream failures are returned.
func (r *Renderer) finish(e *layout.Engine, doc *Document) (*Document, error) {
	var buf bytes.Buffer
	if err := e.Finish(&buf); err != nil {
		r.log.Error("report stream failed", "kind", doc.Kind, "record_id", doc.RecordID, "error", err)
		return nil, &RenderError{Message: "failed to write " + string(doc.Kind) + " report", Cause: err}
	}
	doc.Pages = e.Cursor().Page()
	doc.Bytes = buf.Bytes()
	if e.Cursor().Overrun() {
		r.log.Warn("content crossed the printable area", "document_id", doc.ID, "kind", doc.Kind)
	}
	r.log.Info("report rendered",
		"kind", doc.Kind,
		"pages", doc.Pages,
		"bytes", len(doc.Bytes),
		"document_id", doc.ID,
		"record_id", doc.RecordID,
		"warnings", len(doc.Warnings))
	return doc, nil
}

// copyText renders a copy template. Copy templates are compiled into the binary, so a
// failure is logged and the placeholder is drawn instead.
func (r *Renderer) copyText(name string, data copyData) string {
	text, err := renderCopy(name, data)
	if err != nil {
		r.log.Error("copy template failed", "template", name, "error", err)
		return layout.NotAvailable
	}
	return text
}

// withCatalog fills a profile's missing icon and description from the catalog entry
// of the same name.
func (r *Renderer) withCatalog(p types.Profile) types.Profile {
	if r.opts.Catalog == nil || p.Name == "" {
		return p
	}
	entry, ok := r.opts.Catalog.Lookup(p.Name)
	if !ok {
		return p
	}
	if p.Icon == "" {
		p.Icon = entry.Icon
	}
	if strings.TrimSpace(p.Description) == "" {
		p.Description = entry.Description
	}
	if len(p.Characteristics) == 0 {
		p.Characteristics = entry.Characteristics
	}
	return p
}

// profileBlocks draws the section heading with the general profile, then the
// gender-specific one when present and the respondent's gender resolved to a known value.
func (r *Renderer) profileBlocks(e *layout.Engine, heading string, rec types.AssessmentRecord) {
	e.ProfileBlock(r.withCatalog(rec.Profile), layout.ProfileOptions{Heading: heading, Label: "General Profile"})
	if rec.GenderProfile != nil && rec.Demographics.ResolvedGender.Known() {
		e.ProfileBlock(r.withCatalog(*rec.GenderProfile), layout.ProfileOptions{Label: "Gender-Specific Profile"})
	}
}

func formatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}
