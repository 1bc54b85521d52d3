package td

// Package td models W3C Web of Things Thing Description documents:
//
// - A typed document model (Thing, Property/Action/Event, DataSchema, Form, SecurityScheme)
// - An order-independent builder that finalizes into a validated, immutable Thing
// - A fail-slow validator with a stable error model via Issues (JSON Pointer, code, message)
// - A lossless JSON boundary that round-trips vendor extension fields through Extra maps
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place protocol binding vocabularies under protocol/ and the CLI under cmd/tdlint.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  thing, err := td.NewThing("Temperature sensor").
//      SecurityDefinition("nosec", td.NoSecurity()).
//      Security("nosec").
//      Property("temperature", &td.Property{
//          DataSchema: *td.Number().SetReadOnly(),
//          Forms:      []td.Form{{Href: "https://dev/temp", Op: td.Strings{td.OpReadProperty}}},
//      }).
//      Build(ctx)
//
//  data, err := thing.Encode()
//  thing2, err := td.Parse(ctx, data)
//
