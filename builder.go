package td

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// ThingBuilder accumulates the fields of a Thing Description in any order
// and finalizes them into a validated Thing. Singular setters follow
// last-write-wins; map-valued registrations insert-or-overwrite by key unless
// DuplicateReject is selected. The builder is not safe for concurrent use.
type ThingBuilder struct {
	t       Thing
	policy  DuplicatePolicy
	pending Issues
	seen    map[string]map[string]bool
}

// NewThing returns a builder seeded with the mandatory TD 1.1 context and
// the given title.
func NewThing(title string) *ThingBuilder {
	return &ThingBuilder{
		t: Thing{
			Context: Context{{IRI: ContextV11}},
			Title:   title,
		},
		seen: map[string]map[string]bool{},
	}
}

// StrictNames makes Build flag re-registered affordance and definition names
// as duplicate_name instead of silently overwriting.
func (b *ThingBuilder) StrictNames() *ThingBuilder {
	b.policy = DuplicateReject
	return b
}

// Context replaces the @context sequence.
func (b *ThingBuilder) Context(entries ...ContextEntry) *ThingBuilder {
	b.t.Context = Context(entries)
	return b
}

// AddContext appends one @context entry.
func (b *ThingBuilder) AddContext(e ContextEntry) *ThingBuilder {
	b.t.Context = append(b.t.Context, e)
	return b
}

// ID sets the Thing identifier. It must be an absolute URI.
func (b *ThingBuilder) ID(id string) *ThingBuilder {
	b.t.ID = id
	return b
}

// GenerateID mints a urn:uuid identifier for the Thing.
func (b *ThingBuilder) GenerateID() *ThingBuilder {
	b.t.ID = "urn:uuid:" + uuid.NewString()
	return b
}

// AtType appends semantic @type annotations.
func (b *ThingBuilder) AtType(types ...string) *ThingBuilder {
	b.t.AtType = append(b.t.AtType, types...)
	return b
}

// Title sets the default title.
func (b *ThingBuilder) Title(title string) *ThingBuilder {
	b.t.Title = title
	return b
}

// TitleIn adds a title for the given language tag.
func (b *ThingBuilder) TitleIn(tag, title string) *ThingBuilder {
	if b.t.Titles == nil {
		b.t.Titles = MultiLanguage{}
	}
	b.t.Titles[tag] = title
	return b
}

// Description sets the default description.
func (b *ThingBuilder) Description(desc string) *ThingBuilder {
	b.t.Description = desc
	return b
}

// DescriptionIn adds a description for the given language tag.
func (b *ThingBuilder) DescriptionIn(tag, desc string) *ThingBuilder {
	if b.t.Descriptions == nil {
		b.t.Descriptions = MultiLanguage{}
	}
	b.t.Descriptions[tag] = desc
	return b
}

// Version sets the instance version, with an optional data model version.
func (b *ThingBuilder) Version(instance, model string) *ThingBuilder {
	b.t.Version = &VersionInfo{Instance: instance, Model: model}
	return b
}

// Created sets the creation timestamp.
func (b *ThingBuilder) Created(at time.Time) *ThingBuilder {
	b.t.Created = &at
	return b
}

// Modified sets the modification timestamp.
func (b *ThingBuilder) Modified(at time.Time) *ThingBuilder {
	b.t.Modified = &at
	return b
}

// Support sets the maintainer contact URI.
func (b *ThingBuilder) Support(uri string) *ThingBuilder {
	b.t.Support = uri
	return b
}

// Base sets the base URI that relative form targets resolve against.
func (b *ThingBuilder) Base(uri string) *ThingBuilder {
	b.t.Base = uri
	return b
}

// Property registers a property affordance under name.
func (b *ThingBuilder) Property(name string, p *Property) *ThingBuilder {
	b.register("properties", name)
	if b.t.Properties == nil {
		b.t.Properties = map[string]*Property{}
	}
	b.t.Properties[name] = p
	return b
}

// Action registers an action affordance under name.
func (b *ThingBuilder) Action(name string, a *Action) *ThingBuilder {
	b.register("actions", name)
	if b.t.Actions == nil {
		b.t.Actions = map[string]*Action{}
	}
	b.t.Actions[name] = a
	return b
}

// Event registers an event affordance under name.
func (b *ThingBuilder) Event(name string, e *Event) *ThingBuilder {
	b.register("events", name)
	if b.t.Events == nil {
		b.t.Events = map[string]*Event{}
	}
	b.t.Events[name] = e
	return b
}

// SecurityDefinition registers a named security scheme.
func (b *ThingBuilder) SecurityDefinition(name string, s *SecurityScheme) *ThingBuilder {
	b.register("securityDefinitions", name)
	if b.t.SecurityDefinitions == nil {
		b.t.SecurityDefinitions = map[string]*SecurityScheme{}
	}
	b.t.SecurityDefinitions[name] = s
	return b
}

// SchemaDefinition registers a named reusable data schema.
func (b *ThingBuilder) SchemaDefinition(name string, s *DataSchema) *ThingBuilder {
	b.register("schemaDefinitions", name)
	if b.t.SchemaDefinitions == nil {
		b.t.SchemaDefinitions = map[string]*DataSchema{}
	}
	b.t.SchemaDefinitions[name] = s
	return b
}

// Security replaces the document-level default security name sequence.
func (b *ThingBuilder) Security(names ...string) *ThingBuilder {
	b.t.Security = Strings(names)
	return b
}

// Form appends a thing-level form.
func (b *ThingBuilder) Form(f Form) *ThingBuilder {
	b.t.Forms = append(b.t.Forms, f)
	return b
}

// Link appends a link.
func (b *ThingBuilder) Link(l Link) *ThingBuilder {
	b.t.Links = append(b.t.Links, l)
	return b
}

// register records name bookkeeping for a keyed mapping: empty names are
// flagged immediately, duplicates are flagged when StrictNames is in effect.
func (b *ThingBuilder) register(mapping, name string) {
	path := "/" + mapping + "/" + escapeToken(name)
	if name == "" {
		b.pending = AppendIssues(b.pending, Issue{Path: path, Code: CodeEmptyName})
		return
	}
	if b.seen[mapping] == nil {
		b.seen[mapping] = map[string]bool{}
	}
	if b.seen[mapping][name] && b.policy == DuplicateReject {
		b.pending = AppendIssues(b.pending, Issue{Path: path, Code: CodeDuplicateName, Hint: name})
	}
	b.seen[mapping][name] = true
}

// Build finalizes the accumulation: it validates the document and, on
// success, returns an independent Thing that later builder mutations cannot
// touch. On failure it returns the full set of violated constraints as
// Issues; no partially valid document escapes. Build does not consume the
// builder: calling it twice on an unmodified builder yields structurally
// equal documents.
func (b *ThingBuilder) Build(ctx context.Context) (*Thing, error) {
	iss := append(Issues{}, b.pending...)
	if err := b.t.Validate(ctx); err != nil {
		more, _ := AsIssues(err)
		iss = append(iss, more...)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	out, err := cloneThing(&b.t)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MustBuild is like Build but panics on error.
func (b *ThingBuilder) MustBuild(ctx context.Context) *Thing {
	t, err := b.Build(ctx)
	if err != nil {
		panic(err)
	}
	return t
}

// cloneThing deep-copies through the JSON boundary, which is lossless for a
// document that just passed validation.
func cloneThing(t *Thing) (*Thing, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	var out Thing
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
