// Package attach builds outbound attachment payloads and the display
// marker lines embedded in user message text.
package attach

// FileRef points at a file already in the server-side library
type FileRef struct {
	ID   string
	Name string
}

// LocalFile is raw file content that has not been uploaded yet
type LocalFile struct {
	Name     string
	MimeType string
	Data     []byte
}

// Payload is the outbound attachment shape for a send. Multipart is chosen
// only when local bytes must travel; the JSON-only path is cheaper and is
// preferred whenever every attachment is already uploaded.
type Payload struct {
	Multipart bool
	FileIDs   []string
	Files     []LocalFile
}

// BuildPayload resolves attachment lists into the outbound payload shape
func BuildPayload(refs []FileRef, locals []LocalFile) Payload {
	p := Payload{
		Multipart: len(locals) > 0,
		Files:     locals,
	}
	for _, ref := range refs {
		p.FileIDs = append(p.FileIDs, ref.ID)
	}
	return p
}

// Empty reports whether the payload carries no attachments at all
func (p Payload) Empty() bool {
	return len(p.FileIDs) == 0 && len(p.Files) == 0
}
