package filetags_test

import (
	"context"
	"reflect"
	"testing"

	"autonameow/internal/extractors/filetags"
	"autonameow/internal/fileobject"
)

func TestPartition(t *testing.T) {
	x := filetags.New(filetags.Options{})
	tests := []struct {
		name     string
		filename string
		want     filetags.Parts
		follows  bool
	}{
		{
			name:     "full convention",
			filename: "2017-09-12T224820 filetags-style name -- tag2 a tag1.txt",
			want: filetags.Parts{
				Datetime:    "2017-09-12T224820",
				Description: "filetags-style name",
				Tags:        []string{"a", "tag1", "tag2"},
				Extension:   "txt",
			},
			follows: true,
		},
		{
			name:     "date only",
			filename: "20160722 Descriptive name -- firsttag tagtwo.txt",
			want: filetags.Parts{
				Datetime:    "20160722",
				Description: "Descriptive name",
				Tags:        []string{"firsttag", "tagtwo"},
				Extension:   "txt",
			},
			follows: true,
		},
		{
			name:     "no tags",
			filename: "2016-01-11 report.pdf",
			want:     filetags.Parts{Datetime: "2016-01-11", Description: "report", Extension: "pdf"},
		},
		{
			name:     "plain name",
			filename: "gmail.pdf",
			want:     filetags.Parts{Description: "gmail", Extension: "pdf"},
		},
		{
			name:     "compound suffix",
			filename: "backup -- home.tar.gz",
			want:     filetags.Parts{Description: "backup", Tags: []string{"home"}, Extension: "tar.gz"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := x.Partition(tt.filename)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Partition(%q) = %+v, want %+v", tt.filename, got, tt.want)
			}
			if got.FollowsConvention() != tt.follows {
				t.Fatalf("FollowsConvention = %v", got.FollowsConvention())
			}
		})
	}
}

func TestProduce(t *testing.T) {
	x := filetags.New(filetags.Options{})
	file := &fileobject.FileObject{Filename: "2017-09-12T224820 name -- b a.txt"}
	if !x.CanHandle(file) {
		t.Fatal("CanHandle = false")
	}
	if x.CanHandle(&fileobject.FileObject{Filename: "  "}) {
		t.Fatal("blank names are not handled")
	}
	out, err := x.Produce(context.Background(), file, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out["follows_filetags_convention"] != true {
		t.Fatalf("follows = %v", out["follows_filetags_convention"])
	}
	if !reflect.DeepEqual(out["tags"], []string{"a", "b"}) {
		t.Fatalf("tags = %v", out["tags"])
	}
	for leaf, raw := range out {
		spec := x.MetaInfo()[leaf]
		if _, err := spec.Bundle(x.Name(), raw); err != nil {
			t.Errorf("leaf %s: %v", leaf, err)
		}
	}
}

func TestCustomSeparators(t *testing.T) {
	x := filetags.New(filetags.Options{FilenameTagSeparator: " = ", BetweenTagSeparator: ","})
	got := x.Partition("note = b,a.md")
	if got.Description != "note" || !reflect.DeepEqual(got.Tags, []string{"a", "b"}) {
		t.Fatalf("Partition = %+v", got)
	}
}
