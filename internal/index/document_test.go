package index_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/dataindex/internal/index"
)

func TestLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		relDir string
		mode   string
		want   string
	}{
		{name: "full nested", relDir: "NISTEP/2023/原本", mode: index.LabelFull, want: "NISTEP/2023/原本"},
		{name: "parent nested", relDir: "NISTEP/2023/原本", mode: index.LabelParent, want: "原本"},
		{name: "top nested", relDir: "NISTEP/2023/原本", mode: index.LabelTop, want: "NISTEP"},
		{name: "full single", relDir: "A", mode: index.LabelFull, want: "A"},
		{name: "parent single", relDir: "A", mode: index.LabelParent, want: "A"},
		{name: "top single", relDir: "A", mode: index.LabelTop, want: "A"},
		{name: "full root empty", relDir: "", mode: index.LabelFull, want: index.RootLabel},
		{name: "full root dot", relDir: ".", mode: index.LabelFull, want: index.RootLabel},
		{name: "parent root", relDir: "", mode: index.LabelParent, want: index.RootLabel},
		{name: "top root", relDir: "", mode: index.LabelTop, want: index.RootLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := index.Label(tt.relDir, tt.mode); got != tt.want {
				t.Errorf("Label(%q, %q)=%q, want %q", tt.relDir, tt.mode, got, tt.want)
			}
		})
	}
}

func TestNewRecord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rel  string
		want index.Record
	}{
		{rel: "A/b.csv", want: index.Record{Path: "data/A/b.csv", Title: "b"}},
		{rel: "B/c.TSV", want: index.Record{Path: "data/B/c.TSV", Title: "c"}},
		{rel: "top.csv", want: index.Record{Path: "data/top.csv", Title: "top"}},
		{rel: "x/archive.2023.csv", want: index.Record{Path: "data/x/archive.2023.csv", Title: "archive.2023"}},
		{rel: "NISTEP/2023/原本/ファイル.csv", want: index.Record{Path: "data/NISTEP/2023/原本/ファイル.csv", Title: "ファイル"}},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, index.NewRecord(tt.rel)); diff != "" {
			t.Errorf("NewRecord(%q) mismatch (-want +got):\n%s", tt.rel, diff)
		}
	}
}

func Test_Document_Keeps_First_Seen_Label_Order_When_Records_Are_Added(t *testing.T) {
	t.Parallel()

	doc := index.NewDocument()
	doc.Add("B", index.NewRecord("B/2.csv"))
	doc.Add("A", index.NewRecord("A/1.csv"))
	doc.Add("B", index.NewRecord("B/1.csv"))

	if diff := cmp.Diff([]string{"B", "A"}, doc.Labels()); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}

	want := []index.Record{index.NewRecord("B/2.csv"), index.NewRecord("B/1.csv")}
	if diff := cmp.Diff(want, doc.Records("B")); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	if got, want := doc.Len(), 3; got != want {
		t.Fatalf("Len()=%d, want=%d", got, want)
	}
}

func Test_Document_Orders_Labels_And_Paths_When_Sorted(t *testing.T) {
	t.Parallel()

	doc := index.NewDocument()
	doc.Add("B", index.NewRecord("B/2.csv"))
	doc.Add("A", index.NewRecord("A/1.csv"))
	doc.Add("B", index.NewRecord("B/1.csv"))

	doc.Sort()

	if diff := cmp.Diff([]string{"A", "B"}, doc.Labels()); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}

	want := []index.Record{index.NewRecord("B/1.csv"), index.NewRecord("B/2.csv")}
	if diff := cmp.Diff(want, doc.Records("B")); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	if got := doc.Records("A"); len(got) != 1 || got[0].Title != "1" {
		t.Fatalf("Records(A)=%v after sort", got)
	}
}
