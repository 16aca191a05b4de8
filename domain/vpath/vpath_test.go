package vpath_test

import (
	"reflect"
	"testing"

	"github.com/artpar/wizide/domain/vpath"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"", nil},
		{"/", nil},
		{"app", []string{"app"}},
		{"app/x/app.json", []string{"app", "x", "app.json"}},
		{"/route/a/", []string{"route", "a"}},
	}

	for _, tt := range tests {
		got := vpath.Split(tt.path)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Split(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWithin(t *testing.T) {
	tests := []struct {
		name string
		path string
		root string
		want bool
	}{
		{"equal", "app/foo", "app/foo", true},
		{"child", "app/foo/view.ts", "app/foo", true},
		{"grandchild", "route/a/sub/x", "route/a", true},
		{"shared string prefix", "app/foobar", "app/foo", false},
		{"shared prefix with digit", "app/x2", "app/x", false},
		{"parent is not within child", "route/a", "route/a/sub", false},
		{"empty root", "app/foo", "", false},
		{"trailing slash", "app/foo/", "app/foo", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vpath.Within(tt.path, tt.root); got != tt.want {
				t.Errorf("Within(%q, %q) = %v, want %v", tt.path, tt.root, got, tt.want)
			}
		})
	}
}

func TestReplaceSegment(t *testing.T) {
	tests := []struct {
		path  string
		index int
		value string
		want  string
	}{
		{"app/x/app.json", vpath.SegmentEntity, "y", "app/y/app.json"},
		{"app/x/view.ts", vpath.SegmentEntity, "page.y", "app/page.y/view.ts"},
		{"app", vpath.SegmentEntity, "y", "app"},
		{"app/x", -1, "y", "app/x"},
	}

	for _, tt := range tests {
		if got := vpath.ReplaceSegment(tt.path, tt.index, tt.value); got != tt.want {
			t.Errorf("ReplaceSegment(%q, %d, %q) = %q, want %q", tt.path, tt.index, tt.value, got, tt.want)
		}
	}
}

func TestRebase(t *testing.T) {
	if got := vpath.Rebase("app/x/view.ts", "app/x", "app/y"); got != "app/y/view.ts" {
		t.Errorf("Rebase = %q, want app/y/view.ts", got)
	}
	if got := vpath.Rebase("app/x2/view.ts", "app/x", "app/y"); got != "app/x2/view.ts" {
		t.Errorf("Rebase outside root = %q, want unchanged", got)
	}
	if got := vpath.Rebase("app/x", "app/x", "app/y"); got != "app/y" {
		t.Errorf("Rebase root = %q, want app/y", got)
	}
}

func TestEntityParentBase(t *testing.T) {
	p := "route/api.users/controller.py"
	if got := vpath.Entity(p); got != "route/api.users" {
		t.Errorf("Entity = %q", got)
	}
	if got := vpath.Parent(p); got != "route/api.users" {
		t.Errorf("Parent = %q", got)
	}
	if got := vpath.Base(p); got != "controller.py" {
		t.Errorf("Base = %q", got)
	}
	if got := vpath.Segment(p, vpath.SegmentDomain); got != "route" {
		t.Errorf("Segment(domain) = %q", got)
	}
	if got := vpath.Segment(p, 7); got != "" {
		t.Errorf("Segment(out of range) = %q, want empty", got)
	}
	if got := vpath.Parent("app"); got != "" {
		t.Errorf("Parent(app) = %q, want empty", got)
	}
}

func TestClean(t *testing.T) {
	if got := vpath.Clean("/app//x/"); got != "app/x" {
		t.Errorf("Clean = %q, want app/x", got)
	}
}

func TestDepth(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"", 0},
		{"app/", 1},
		{"app/x", 2},
		{"/app//x/view.ts", 3},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := vpath.Depth(tt.path); got != tt.want {
				t.Errorf("Depth(%q) = %d, want %d", tt.path, got, tt.want)
			}
		})
	}
}
