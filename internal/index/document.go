package index

import (
	"path"
	"sort"
	"strings"
)

// Record describes one included file.
type Record struct {
	// Path is "data/" plus the slash-separated path relative to the data dir.
	Path string `json:"path"`
	// Title is the file name without its extension.
	Title string `json:"title"`
}

// Group is the list of records sharing a label.
type Group struct {
	Label   string
	Records []Record
}

// Document is the label -> records mapping produced by one run.
// Groups keep the order in which their label was first seen.
type Document struct {
	Groups []Group

	byLabel map[string]int
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{byLabel: make(map[string]int)}
}

// Add appends rec to the group for label, creating the group if needed.
func (d *Document) Add(label string, rec Record) {
	if d.byLabel == nil {
		d.byLabel = make(map[string]int)
	}

	idx, ok := d.byLabel[label]
	if !ok {
		idx = len(d.Groups)
		d.byLabel[label] = idx
		d.Groups = append(d.Groups, Group{Label: label})
	}

	d.Groups[idx].Records = append(d.Groups[idx].Records, rec)
}

// Records returns the records for label, or nil.
func (d *Document) Records(label string) []Record {
	idx, ok := d.byLabel[label]
	if !ok {
		return nil
	}

	return d.Groups[idx].Records
}

// Labels returns the labels in document order.
func (d *Document) Labels() []string {
	labels := make([]string, 0, len(d.Groups))
	for _, g := range d.Groups {
		labels = append(labels, g.Label)
	}

	return labels
}

// Len returns the total number of records.
func (d *Document) Len() int {
	n := 0
	for _, g := range d.Groups {
		n += len(g.Records)
	}

	return n
}

// Sort orders groups by label and records by path.
func (d *Document) Sort() {
	sort.SliceStable(d.Groups, func(i, j int) bool {
		return d.Groups[i].Label < d.Groups[j].Label
	})

	if d.byLabel == nil {
		d.byLabel = make(map[string]int, len(d.Groups))
	}

	for i := range d.Groups {
		recs := d.Groups[i].Records
		sort.SliceStable(recs, func(a, b int) bool {
			return recs[a].Path < recs[b].Path
		})

		d.byLabel[d.Groups[i].Label] = i
	}
}

// Label derives the group label from a slash-separated directory path
// relative to the data dir. An empty or "." dir yields [RootLabel] in
// every mode.
//
//	Label("NISTEP/2023/原本", LabelFull)   // "NISTEP/2023/原本"
//	Label("NISTEP/2023/原本", LabelParent) // "原本"
//	Label("NISTEP/2023/原本", LabelTop)    // "NISTEP"
func Label(relDir, mode string) string {
	relDir = path.Clean(relDir)
	if relDir == "." || relDir == "" {
		return RootLabel
	}

	switch mode {
	case LabelTop:
		top, _, _ := strings.Cut(relDir, "/")
		return top
	case LabelParent:
		return path.Base(relDir)
	default:
		return relDir
	}
}

// NewRecord builds the record for a slash-separated path relative to the
// data dir.
func NewRecord(relPath string) Record {
	name := path.Base(relPath)

	return Record{
		Path:  "data/" + relPath,
		Title: strings.TrimSuffix(name, path.Ext(name)),
	}
}
