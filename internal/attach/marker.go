package attach

import "strings"

// Marker prefixes embedded in the user message body. The server strips
// these lines before running retrieval, so the exact byte form matters:
// changing a prefix breaks compatibility with the completion endpoint.
const (
	MarkerAttached = "📎 Attached: "
	MarkerUploaded = "📤 Uploaded: "
)

const nameSeparator = ", "

// AppendMarkers appends the attachment marker lines to the literal message
// text: one line for library attachments, one for fresh uploads. Each group
// is preceded by a blank line, matching the format the server splits on.
func AppendMarkers(text string, refs []FileRef, locals []LocalFile) string {
	var b strings.Builder
	b.WriteString(text)

	if len(refs) > 0 {
		names := make([]string, len(refs))
		for i, ref := range refs {
			names[i] = ref.Name
		}
		b.WriteString("\n\n")
		b.WriteString(MarkerAttached)
		b.WriteString(strings.Join(names, nameSeparator))
	}

	if len(locals) > 0 {
		names := make([]string, len(locals))
		for i, f := range locals {
			names[i] = f.Name
		}
		b.WriteString("\n\n")
		b.WriteString(MarkerUploaded)
		b.WriteString(strings.Join(names, nameSeparator))
	}

	return b.String()
}

// DecodeMarkers splits a message body back into the literal text and the
// attachment name groups. Inverse of AppendMarkers for file names that
// contain neither line breaks nor the ", " separator.
func DecodeMarkers(text string) (body string, attached, uploaded []string) {
	var bodyLines []string
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, MarkerAttached):
			attached = splitNames(strings.TrimPrefix(line, MarkerAttached))
		case strings.HasPrefix(line, MarkerUploaded):
			uploaded = splitNames(strings.TrimPrefix(line, MarkerUploaded))
		default:
			bodyLines = append(bodyLines, line)
		}
	}

	body = strings.TrimRight(strings.Join(bodyLines, "\n"), "\n")
	return body, attached, uploaded
}

func splitNames(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, nameSeparator)
}
