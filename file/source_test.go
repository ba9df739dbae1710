package file

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func mustWriteFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := ioutil.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func testTree(t *testing.T) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "filesource")
	if err != nil {
		t.Fatalf("creating temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	mustWriteFile(t, filepath.Join(dir, "a.json"), `{"n": 1}`+"\n"+`{"n": 2}`+"\n")
	mustWriteFile(t, filepath.Join(dir, "z", "2018", "11", "b.json"), `{"n": 3}`+"\n")
	return dir
}

func TestSourceWalksTree(t *testing.T) {
	src, err := NewSource(testTree(t))
	if err != nil {
		t.Fatalf("getting source: %v", err)
	}
	for i := 1.0; i <= 3.0; i++ {
		rec, err := src.Record()
		if err != nil {
			t.Fatalf("getting record %v: %v", i, err)
		}
		if rec["n"] != i {
			t.Fatalf("expected records in lexical path order, n=%v got %#v", i, rec)
		}
	}
	if _, err := src.Record(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestSourceSingleFile(t *testing.T) {
	dir := testTree(t)
	src, err := NewSource(filepath.Join(dir, "a.json"))
	if err != nil {
		t.Fatalf("getting source: %v", err)
	}
	n := 0
	for {
		_, err := src.Record()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("getting record: %v", err)
		}
		n++
	}
	if n != 2 {
		t.Fatalf("expected 2 records from a single file, got %d", n)
	}
}

func TestSourceMissingPath(t *testing.T) {
	if _, err := NewSource(filepath.Join(testTree(t), "nope")); err == nil {
		t.Fatalf("expected an error for a missing path")
	}
}

func TestRawSourceNames(t *testing.T) {
	rs, err := NewRawSource(testTree(t))
	if err != nil {
		t.Fatalf("getting raw source: %v", err)
	}
	var names []string
	for {
		r, err := rs.NextReader()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("getting reader: %v", err)
		}
		names = append(names, r.Name())
		r.Close()
	}
	if len(names) != 2 || names[0] != "a.json" || names[1] != "b.json" {
		t.Fatalf("unexpected reader names: %v", names)
	}
}

func TestSourceDecodeErrorNamesFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "filesource")
	if err != nil {
		t.Fatalf("creating temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	mustWriteFile(t, filepath.Join(dir, "bad.json"), `{broken`)

	src, err := NewSource(dir)
	if err != nil {
		t.Fatalf("getting source: %v", err)
	}
	_, err = src.Record()
	if err == nil || err == io.EOF {
		t.Fatalf("expected a decode error, got %v", err)
	}
}
