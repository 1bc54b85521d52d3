package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	td "github.com/wotkit/td"
	"github.com/wotkit/td/i18n"
)

func main() {
	fs := flag.NewFlagSet("tdlint", flag.ExitOnError)
	var lang string
	var failFast bool
	fs.StringVar(&lang, "lang", "en", "message language (en/ja)")
	fs.BoolVar(&failFast, "fail-fast", false, "stop at the first issue per document")
	fs.Usage = usage(fs)
	_ = fs.Parse(os.Args[1:])
	files := fs.Args()
	if len(files) == 0 {
		fs.Usage()
		os.Exit(2)
	}

	i18n.SetLanguage(lang)
	ctx := td.WithFailFast(context.Background(), failFast)

	exit := 0
	for _, file := range files {
		if err := lint(ctx, file); err != nil {
			if iss, ok := td.AsIssues(err); ok {
				for _, it := range iss {
					fmt.Fprintf(os.Stdout, "%s:\t%s\t%s\t%s\n", file, it.Path, it.Code, it.Message)
				}
			} else {
				fmt.Fprintf(os.Stderr, "tdlint: %s: %v\n", file, err)
			}
			exit = 1
		}
	}
	os.Exit(exit)
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintln(os.Stderr, "Usage:\n  tdlint [-lang en|ja] [-fail-fast] file.td.json|file.td.yaml ...")
		fs.PrintDefaults()
	}
}

func lint(ctx context.Context, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return err
		}
	}
	_, err = td.Parse(ctx, data)
	return err
}

// yamlToJSON converts the first YAML document into its JSON encoding.
func yamlToJSON(data []byte) ([]byte, error) {
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	var node any
	if err := dec.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("tdlint: empty YAML document")
		}
		return nil, err
	}
	m := yamlAnyToStringMap(node)
	if m == nil {
		return nil, errors.New("tdlint: YAML root is not a mapping")
	}
	return json.Marshal(m)
}

// yamlAnyToStringMap converts YAML-decoded values (which may contain
// map[any]any) into JSON-like map[string]any recursively. Non-map roots
// return nil.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
