package td_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	td "github.com/wotkit/td"
)

func TestBuilder_OrderIndependence(t *testing.T) {
	ctx := context.Background()

	a := td.NewThing("Lamp").
		Property("brightness", &td.Property{
			DataSchema: *td.Integer().WithRange(0, 100),
			Forms:      []td.Form{{Href: "https://dev/b", Op: td.Strings{td.OpReadProperty, td.OpWriteProperty}}},
		}).
		Action("fade", &td.Action{InteractionAffordance: td.InteractionAffordance{
			Forms: []td.Form{{Href: "https://dev/fade", Op: td.Strings{td.OpInvokeAction}}},
		}}).
		SecurityDefinition("basic_sc", td.BasicAuth()).
		Security("basic_sc").
		MustBuild(ctx)

	b := td.NewThing("placeholder").
		Security("basic_sc").
		SecurityDefinition("basic_sc", td.BasicAuth()).
		Action("fade", &td.Action{InteractionAffordance: td.InteractionAffordance{
			Forms: []td.Form{{Href: "https://dev/fade", Op: td.Strings{td.OpInvokeAction}}},
		}}).
		Property("brightness", &td.Property{
			DataSchema: *td.Integer().WithRange(0, 100),
			Forms:      []td.Form{{Href: "https://dev/b", Op: td.Strings{td.OpReadProperty, td.OpWriteProperty}}},
		}).
		Title("Lamp").
		MustBuild(ctx)

	ea, err := a.Encode()
	if err != nil {
		t.Fatalf("encode a: %v", err)
	}
	eb, err := b.Encode()
	if err != nil {
		t.Fatalf("encode b: %v", err)
	}
	if !bytes.Equal(ea, eb) {
		t.Fatalf("registration order must not leak into the document:\n%s\n%s", ea, eb)
	}
}

func TestBuilder_LastWriteWinsByDefault(t *testing.T) {
	thing := temperatureThing().
		Property("temperature", &td.Property{
			DataSchema: *td.Integer(),
			Forms:      []td.Form{{Href: "https://dev/temp2", Op: td.Strings{td.OpReadProperty}}},
		}).
		MustBuild(context.Background())
	p := thing.Property("temperature")
	if p == nil || p.Type != td.TypeInteger {
		t.Fatalf("expected the second registration to win, got %+v", p)
	}
	if p.Forms[0].Href != "https://dev/temp2" {
		t.Fatalf("expected whole-value replacement, got %q", p.Forms[0].Href)
	}
}

func TestBuilder_StrictNamesFlagsDuplicates(t *testing.T) {
	b := temperatureThing().StrictNames().
		Property("temperature", &td.Property{DataSchema: *td.Integer()}).
		SecurityDefinition("nosec", td.NoSecurity())
	_, err := b.Build(context.Background())
	iss := issuesWithCode(err, td.CodeDuplicateName)
	if len(iss) != 2 {
		t.Fatalf("expected duplicate_name for both mappings, got %v", err)
	}
	paths := map[string]bool{}
	for _, it := range iss {
		paths[it.Path] = true
	}
	if !paths["/properties/temperature"] || !paths["/securityDefinitions/nosec"] {
		t.Fatalf("unexpected duplicate paths %v", paths)
	}
}

func TestBuilder_EmptyNameFlagged(t *testing.T) {
	_, err := temperatureThing().
		Property("", &td.Property{DataSchema: *td.Number()}).
		Build(context.Background())
	if len(issuesWithCode(err, td.CodeEmptyName)) == 0 {
		t.Fatalf("expected empty_name, got %v", err)
	}
}

func TestBuilder_GenerateID(t *testing.T) {
	thing := temperatureThing().GenerateID().MustBuild(context.Background())
	if !strings.HasPrefix(thing.ID, "urn:uuid:") {
		t.Fatalf("expected urn:uuid identifier, got %q", thing.ID)
	}
	other := temperatureThing().GenerateID().MustBuild(context.Background())
	if thing.ID == other.ID {
		t.Fatalf("expected distinct identifiers, got %q twice", thing.ID)
	}
}

func TestBuilder_BuildTwiceYieldsEqualDocuments(t *testing.T) {
	ctx := context.Background()
	b := temperatureThing().
		Version("1.2.0", "1.1").
		Created(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	first := b.MustBuild(ctx)
	second := b.MustBuild(ctx)

	e1, err := first.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	e2, err := second.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(e1, e2) {
		t.Fatalf("Build must not consume the builder:\n%s\n%s", e1, e2)
	}
	if first == second {
		t.Fatalf("expected independent documents")
	}
}

func TestBuilder_BuildReturnsNoPartialDocument(t *testing.T) {
	thing, err := temperatureThing().Security("missing").Build(context.Background())
	if err == nil {
		t.Fatalf("expected failure")
	}
	if thing != nil {
		t.Fatalf("no document may escape a failed finalize, got %+v", thing)
	}
}

func TestBuilder_MustBuildPanicsOnIssues(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected an error payload, got %T", r)
		}
		if _, ok := td.AsIssues(err); !ok {
			t.Fatalf("expected Issues, got %v", err)
		}
	}()
	temperatureThing().Security("missing").MustBuild(context.Background())
}

func TestBuilder_MetadataSetters(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	modified := created.Add(48 * time.Hour)
	thing := temperatureThing().
		AtType("saref:TemperatureSensor").
		DescriptionIn("en", "A sensor").
		Description("A sensor").
		Version("1.2.0", "1.1").
		Created(created).
		Modified(modified).
		Support("mailto:ops@example.com").
		Base("https://dev.example.com/api/").
		MustBuild(context.Background())

	if !thing.AtType.Contains("saref:TemperatureSensor") {
		t.Fatalf("missing @type annotation: %v", thing.AtType)
	}
	if thing.Version == nil || thing.Version.Instance != "1.2.0" || thing.Version.Model != "1.1" {
		t.Fatalf("unexpected version %+v", thing.Version)
	}
	if thing.Created == nil || !thing.Created.Equal(created) {
		t.Fatalf("unexpected created %v", thing.Created)
	}
	if thing.Modified == nil || !thing.Modified.Equal(modified) {
		t.Fatalf("unexpected modified %v", thing.Modified)
	}
	if thing.Base != "https://dev.example.com/api/" {
		t.Fatalf("unexpected base %q", thing.Base)
	}
}

func TestBuilder_AddContextPrefixes(t *testing.T) {
	thing := temperatureThing().
		AddContext(td.ContextEntry{Prefixes: map[string]string{
			"saref": "https://w3id.org/saref#",
		}}).
		MustBuild(context.Background())
	if len(thing.Context) != 2 {
		t.Fatalf("expected two context entries, got %v", thing.Context)
	}
	if thing.Context[1].Prefixes["saref"] != "https://w3id.org/saref#" {
		t.Fatalf("unexpected prefixes %v", thing.Context[1].Prefixes)
	}
}
