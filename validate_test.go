package td_test

import (
	"context"
	"testing"

	td "github.com/wotkit/td"
)

// temperatureThing returns the canonical minimal valid document: one
// read-only number property with a readproperty form and nosec security.
func temperatureThing() *td.ThingBuilder {
	return td.NewThing("Temperature sensor").
		SecurityDefinition("nosec", td.NoSecurity()).
		Security("nosec").
		Property("temperature", &td.Property{
			DataSchema: *td.Number().SetReadOnly(),
			Forms:      []td.Form{{Href: "https://dev/temp", Op: td.Strings{td.OpReadProperty}}},
		})
}

func issuesWithCode(err error, code string) []td.Issue {
	iss, ok := td.AsIssues(err)
	if !ok {
		return nil
	}
	var out []td.Issue
	for _, it := range iss {
		if it.Code == code {
			out = append(out, it)
		}
	}
	return out
}

func TestBuild_MinimalThingValidates(t *testing.T) {
	thing, err := temperatureThing().Build(context.Background())
	if err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}
	if thing.Property("temperature") == nil {
		t.Fatalf("expected temperature property to be present")
	}
	if s, ok := thing.SecurityScheme("nosec"); !ok || s.Scheme != td.SchemeNoSec {
		t.Fatalf("expected nosec definition to resolve, got %v %v", s, ok)
	}
}

func TestBuild_UnresolvedDefaultSecurity(t *testing.T) {
	_, err := temperatureThing().Security("basic").Build(context.Background())
	iss := issuesWithCode(err, td.CodeUnresolvedSecurity)
	if len(iss) != 1 {
		t.Fatalf("expected one unresolved_security issue, got %v", err)
	}
	if iss[0].Hint != "basic" {
		t.Fatalf("expected the offending name in the hint, got %q", iss[0].Hint)
	}
	if iss[0].Path != "/security/0" {
		t.Fatalf("unexpected path %q", iss[0].Path)
	}
}

func TestBuild_EmptyDefaultSecurity(t *testing.T) {
	_, err := temperatureThing().Security().Build(context.Background())
	if len(issuesWithCode(err, td.CodeEmptySecurity)) != 1 {
		t.Fatalf("expected empty_security, got %v", err)
	}
}

func TestBuild_IllegalFormOpOnProperty(t *testing.T) {
	b := temperatureThing().Property("reset", &td.Property{
		DataSchema: *td.Boolean(),
		Forms:      []td.Form{{Href: "https://dev/reset", Op: td.Strings{td.OpInvokeAction}}},
	})
	_, err := b.Build(context.Background())
	iss := issuesWithCode(err, td.CodeIllegalFormOp)
	if len(iss) != 1 {
		t.Fatalf("expected one illegal_form_op issue, got %v", err)
	}
	if iss[0].Path != "/properties/reset/forms/0/op/0" {
		t.Fatalf("unexpected path %q", iss[0].Path)
	}
}

func TestValidate_FormOpWhitelists(t *testing.T) {
	cases := []struct {
		name  string
		build func(b *td.ThingBuilder)
		ok    bool
	}{
		{"action accepts invokeaction", func(b *td.ThingBuilder) {
			b.Action("toggle", &td.Action{InteractionAffordance: td.InteractionAffordance{
				Forms: []td.Form{{Href: "https://dev/toggle", Op: td.Strings{td.OpInvokeAction}}},
			}})
		}, true},
		{"action rejects readproperty", func(b *td.ThingBuilder) {
			b.Action("toggle", &td.Action{InteractionAffordance: td.InteractionAffordance{
				Forms: []td.Form{{Href: "https://dev/toggle", Op: td.Strings{td.OpReadProperty}}},
			}})
		}, false},
		{"event accepts subscribeevent", func(b *td.ThingBuilder) {
			b.Event("overheated", &td.Event{InteractionAffordance: td.InteractionAffordance{
				Forms: []td.Form{{Href: "https://dev/oh", Op: td.Strings{td.OpSubscribeEvent}}},
			}})
		}, true},
		{"event rejects invokeaction", func(b *td.ThingBuilder) {
			b.Event("overheated", &td.Event{InteractionAffordance: td.InteractionAffordance{
				Forms: []td.Form{{Href: "https://dev/oh", Op: td.Strings{td.OpInvokeAction}}},
			}})
		}, false},
		{"thing accepts readallproperties", func(b *td.ThingBuilder) {
			b.Form(td.Form{Href: "https://dev/all", Op: td.Strings{td.OpReadAllProperties}})
		}, true},
		{"thing rejects readproperty", func(b *td.ThingBuilder) {
			b.Form(td.Form{Href: "https://dev/all", Op: td.Strings{td.OpReadProperty}})
		}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := temperatureThing()
			tc.build(b)
			_, err := b.Build(context.Background())
			if tc.ok && err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if !tc.ok && len(issuesWithCode(err, td.CodeIllegalFormOp)) == 0 {
				t.Fatalf("expected illegal_form_op, got %v", err)
			}
		})
	}
}

func TestValidate_FormSecurityOverrideMustResolve(t *testing.T) {
	b := temperatureThing().Property("temperature", &td.Property{
		DataSchema: *td.Number(),
		Forms: []td.Form{{
			Href:     "https://dev/temp",
			Op:       td.Strings{td.OpReadProperty},
			Security: td.Strings{"oauth"},
		}},
	})
	_, err := b.Build(context.Background())
	iss := issuesWithCode(err, td.CodeUnresolvedSecurity)
	if len(iss) != 1 {
		t.Fatalf("expected one unresolved_security issue, got %v", err)
	}
	if iss[0].Path != "/properties/temperature/forms/0/security/0" {
		t.Fatalf("unexpected path %q", iss[0].Path)
	}
}

func TestValidate_AffordanceSecurityOverrideMustResolve(t *testing.T) {
	b := temperatureThing().Action("calibrate", &td.Action{InteractionAffordance: td.InteractionAffordance{
		Forms:    []td.Form{{Href: "https://dev/cal", Op: td.Strings{td.OpInvokeAction}}},
		Security: td.Strings{"basic"},
	}})
	_, err := b.Build(context.Background())
	if len(issuesWithCode(err, td.CodeUnresolvedSecurity)) != 1 {
		t.Fatalf("expected unresolved_security, got %v", err)
	}
}

func TestValidate_InvalidLanguageTag(t *testing.T) {
	_, err := temperatureThing().TitleIn("e1n", "oops").Build(context.Background())
	iss := issuesWithCode(err, td.CodeInvalidLanguageTag)
	if len(iss) != 1 {
		t.Fatalf("expected invalid_language_tag, got %v", err)
	}
	if iss[0].Hint != "e1n" {
		t.Fatalf("expected offending tag in hint, got %q", iss[0].Hint)
	}
}

func TestValidate_ValidLanguageTags(t *testing.T) {
	_, err := temperatureThing().
		TitleIn("en", "Temperature sensor").
		TitleIn("ja", "温度センサー").
		DescriptionIn("de-DE", "Temperatursensor").
		Build(context.Background())
	if err != nil {
		t.Fatalf("expected valid tags to pass, got %v", err)
	}
}

func TestValidate_IDMustBeAbsoluteURI(t *testing.T) {
	if _, err := temperatureThing().ID("not absolute").Build(context.Background()); len(issuesWithCode(err, td.CodeInvalidURI)) == 0 {
		t.Fatalf("expected invalid_uri for relative id, got %v", err)
	}
	if _, err := temperatureThing().ID("urn:uuid:0e4619d9-8f20-4e30-9f3a-9f0c1a7f4d2a").Build(context.Background()); err != nil {
		t.Fatalf("expected urn id to pass, got %v", err)
	}
}

func TestValidate_LinkTargetURI(t *testing.T) {
	_, err := temperatureThing().
		Link(td.Link{Href: "https://dev/manual.pdf", Rel: "manual"}).
		Build(context.Background())
	if err != nil {
		t.Fatalf("expected valid link, got %v", err)
	}

	_, err = temperatureThing().
		Link(td.Link{Href: "http://exa mple.com/\x7f", Rel: "manual"}).
		Build(context.Background())
	if len(issuesWithCode(err, td.CodeInvalidURI)) == 0 {
		t.Fatalf("expected invalid_uri for bad link target, got %v", err)
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	b := temperatureThing().
		Security("basic").
		TitleIn("e1n", "oops").
		Form(td.Form{Href: "https://dev/all", Op: td.Strings{td.OpReadProperty}})
	_, err := b.Build(context.Background())
	iss, ok := td.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got %v", err)
	}
	if len(iss) < 3 {
		t.Fatalf("expected fail-slow collection of at least 3 issues, got %d: %v", len(iss), iss)
	}
}

func TestValidate_FailFastStopsAtFirstIssue(t *testing.T) {
	b := temperatureThing().
		Security("basic").
		TitleIn("e1n", "oops").
		Form(td.Form{Href: "https://dev/all", Op: td.Strings{td.OpReadProperty}})
	ctx := td.WithFailFast(context.Background(), true)
	_, err := b.Build(ctx)
	iss, ok := td.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got %v", err)
	}
	if len(iss) != 1 {
		t.Fatalf("expected a single issue under fail-fast, got %d: %v", len(iss), iss)
	}
}

func TestValidate_MissingTitleAndContext(t *testing.T) {
	_, err := td.NewThing("").
		Context().
		SecurityDefinition("nosec", td.NoSecurity()).
		Security("nosec").
		Build(context.Background())
	if len(issuesWithCode(err, td.CodeRequired)) != 2 {
		t.Fatalf("expected required issues for @context and title, got %v", err)
	}
}

func TestValidate_ReadOnlyWriteOnlyExclusive(t *testing.T) {
	b := temperatureThing().Property("mode", &td.Property{
		DataSchema: *td.String().SetReadOnly().SetWriteOnly(),
	})
	_, err := b.Build(context.Background())
	if len(issuesWithCode(err, td.CodeMalformedSchema)) == 0 {
		t.Fatalf("expected malformed_schema for readOnly+writeOnly, got %v", err)
	}
}

func TestThing_ValidatedDocumentIsIndependentOfBuilder(t *testing.T) {
	b := temperatureThing()
	thing := b.MustBuild(context.Background())
	b.Title("changed afterwards")
	if thing.Title != "Temperature sensor" {
		t.Fatalf("built document must not observe later builder mutation, got %q", thing.Title)
	}
}
