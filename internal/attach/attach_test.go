package attach

import (
	"reflect"
	"strings"
	"testing"
)

func TestBuildPayload_JSONOnly(t *testing.T) {
	refs := []FileRef{{ID: "f1", Name: "report.pdf"}, {ID: "f2", Name: "notes.txt"}}

	p := BuildPayload(refs, nil)

	if p.Multipart {
		t.Error("payload must be JSON-only when no local files are present")
	}
	if !reflect.DeepEqual(p.FileIDs, []string{"f1", "f2"}) {
		t.Errorf("FileIDs = %v, want [f1 f2]", p.FileIDs)
	}
}

func TestBuildPayload_MultipartWhenLocalPresent(t *testing.T) {
	refs := []FileRef{{ID: "f1", Name: "report.pdf"}}
	locals := []LocalFile{{Name: "draft.md", MimeType: "text/markdown", Data: []byte("# hi")}}

	p := BuildPayload(refs, locals)

	if !p.Multipart {
		t.Error("payload must be multipart when a local file is present")
	}
	if len(p.Files) != 1 || p.Files[0].Name != "draft.md" {
		t.Errorf("Files = %+v, want the local file", p.Files)
	}
	// Existing ids still travel as the JSON side channel
	if !reflect.DeepEqual(p.FileIDs, []string{"f1"}) {
		t.Errorf("FileIDs = %v, want [f1]", p.FileIDs)
	}
}

func TestPayload_Empty(t *testing.T) {
	if !BuildPayload(nil, nil).Empty() {
		t.Error("payload with no attachments should be empty")
	}
	if BuildPayload([]FileRef{{ID: "f1"}}, nil).Empty() {
		t.Error("payload with refs should not be empty")
	}
}

func TestAppendMarkers_AttachedOnly(t *testing.T) {
	got := AppendMarkers("Summarize this", []FileRef{{ID: "f1", Name: "report.pdf"}}, nil)

	want := "Summarize this\n\n📎 Attached: report.pdf"
	if got != want {
		t.Errorf("AppendMarkers() = %q, want %q", got, want)
	}
	if !strings.HasSuffix(got, "📎 Attached: report.pdf") {
		t.Errorf("display text must end with the attached marker line")
	}
}

func TestAppendMarkers_BothGroups(t *testing.T) {
	refs := []FileRef{{ID: "f1", Name: "a.pdf"}, {ID: "f2", Name: "b.txt"}}
	locals := []LocalFile{{Name: "c.md"}}

	got := AppendMarkers("Compare", refs, locals)

	want := "Compare\n\n📎 Attached: a.pdf, b.txt\n\n📤 Uploaded: c.md"
	if got != want {
		t.Errorf("AppendMarkers() = %q, want %q", got, want)
	}
}

func TestAppendMarkers_NoAttachments(t *testing.T) {
	if got := AppendMarkers("hello", nil, nil); got != "hello" {
		t.Errorf("AppendMarkers() = %q, want unchanged text", got)
	}
}

func TestMarkers_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		attached []string
		uploaded []string
	}{
		{"attached only", "Summarize this", []string{"report.pdf"}, nil},
		{"uploaded only", "What is in here?", nil, []string{"scan.png"}},
		{"both groups", "Compare them", []string{"a.pdf", "b 2024.txt"}, []string{"c.md"}},
		{"multiline body", "line one\nline two", []string{"x.pdf"}, nil},
		{"unicode names", "hi", []string{"отчёт.pdf", "日報.txt"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var refs []FileRef
			for _, n := range tt.attached {
				refs = append(refs, FileRef{ID: "id-" + n, Name: n})
			}
			var locals []LocalFile
			for _, n := range tt.uploaded {
				locals = append(locals, LocalFile{Name: n})
			}

			encoded := AppendMarkers(tt.body, refs, locals)
			body, attached, uploaded := DecodeMarkers(encoded)

			if body != tt.body {
				t.Errorf("body = %q, want %q", body, tt.body)
			}
			if !reflect.DeepEqual(attached, sliceOrNil(tt.attached)) {
				t.Errorf("attached = %v, want %v", attached, tt.attached)
			}
			if !reflect.DeepEqual(uploaded, sliceOrNil(tt.uploaded)) {
				t.Errorf("uploaded = %v, want %v", uploaded, tt.uploaded)
			}
		})
	}
}

func TestDecodeMarkers_PlainText(t *testing.T) {
	body, attached, uploaded := DecodeMarkers("no markers here")
	if body != "no markers here" || attached != nil || uploaded != nil {
		t.Errorf("DecodeMarkers changed plain text: %q %v %v", body, attached, uploaded)
	}
}

func sliceOrNil(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
