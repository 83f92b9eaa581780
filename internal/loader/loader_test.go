package loader

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-logr/logr/testr"
	"github.com/hashicorp/go-multierror"
	"github.com/vvakame/gqlimport/internal/log"
)

func testContext(t *testing.T) context.Context {
	return log.WithLogger(context.Background(), testr.New(t))
}

func file(s string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(s)}
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"top.graphql":                file(`query Top { a }`),
		"fragments/user.graphql":     file(`fragment user on User @export { id }`),
		"queries/me.gql":             file(`query Me { me { ...user @import(from: "fragments.user") } }`),
		"legacy/old.graphql":         file(`query Old { a }`),
		"node_modules/pkg/x.graphql": file(`query X { a }`),
		".git/hooks/broken.graphql":  file(`query {`),
		"schema/schema.graphqls":     file(`type Query { a: Int }`),
		"README.md":                  file(`# fragments`),
	}

	modules, err := Load(testContext(t), fsys, &Options{
		Exclude: []string{"legacy/**"},
	})
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, module := range modules {
		got = append(got, module.Path+"="+module.ImportPath)
		if module.Document == nil {
			t.Errorf("%s has no document", module.Path)
		}
		if module.Source.Name != module.Path {
			t.Errorf("unexpected source name: %s", module.Source.Name)
		}
	}
	want := "fragments/user.graphql=fragments.user,queries/me.gql=queries.me,top.graphql=top"
	if strings.Join(got, ",") != want {
		t.Errorf("got = %s, want %s", strings.Join(got, ","), want)
	}

	docs := Documents(modules)
	if len(docs) != 3 {
		t.Fatalf("unexpected documents: %d", len(docs))
	}
	if fragment := docs["fragments.user"].Fragments.ForName("user"); fragment == nil {
		t.Error("fragment user is missing")
	}
	if op := docs["queries.me"].Operations.ForName("Me"); op == nil {
		t.Error("operation Me is missing")
	}
}

func TestLoad_Include(t *testing.T) {
	fsys := fstest.MapFS{
		"a/query.graphql": file(`query A { a }`),
		"b/query.graphql": file(`query B { b }`),
	}

	modules, err := Load(testContext(t), fsys, &Options{
		Include: []string{"b/*.graphql"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(modules) != 1 || modules[0].ImportPath != "b.query" {
		t.Errorf("unexpected modules: %v", modules)
	}
}

func TestLoad_ImportPathCollision(t *testing.T) {
	fsys := fstest.MapFS{
		"a/b.graphql": file(`query A { a }`),
		"a.b.graphql": file(`query B { b }`),
	}

	_, err := Load(testContext(t), fsys, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `a.b.graphql and a/b.graphql both map to import path "a.b"`) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_ParseErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"broken1.graphql": file(`query {`),
		"ok.graphql":      file(`query Ok { a }`),
		"broken2.graphql": file(`fragment on on`),
	}

	_, err := Load(testContext(t), fsys, nil)
	if err == nil {
		t.Fatal("expected error")
	}

	var mErr *multierror.Error
	if !errors.As(err, &mErr) {
		t.Fatalf("unexpected error type: %T", err)
	}
	if len(mErr.Errors) != 2 {
		t.Fatalf("unexpected error count: %d, %v", len(mErr.Errors), err)
	}
	if !strings.Contains(mErr.Errors[0].Error(), "broken1.graphql") {
		t.Errorf("unexpected error: %v", mErr.Errors[0])
	}
	if !strings.Contains(mErr.Errors[1].Error(), "broken2.graphql") {
		t.Errorf("unexpected error: %v", mErr.Errors[1])
	}
}

func TestLoad_BadPattern(t *testing.T) {
	fsys := fstest.MapFS{
		"query.graphql": file(`query Q { a }`),
	}

	_, err := Load(testContext(t), fsys, &Options{
		Include: []string{"[unclosed"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	_, err := Load(ctx, fstest.MapFS{
		"query.graphql": file(`query Q { a }`),
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("unexpected error: %v", err)
	}
}
