package api

import "io"

// ProgressFunc reports upload progress as a percentage in [0, 100]
type ProgressFunc func(percent int)

// progressReader wraps a reader of known total size and reports percent
// complete as bytes are consumed. Reported values never decrease and 100
// fires exactly when the last byte is read.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	last     int
	progress ProgressFunc
}

func newProgressReader(r io.Reader, total int64, progress ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, last: -1, progress: progress}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.read += int64(n)
		p.report()
	}
	return n, err
}

func (p *progressReader) report() {
	if p.progress == nil || p.total <= 0 {
		return
	}
	pct := int(p.read * 100 / p.total)
	if pct > 100 {
		pct = 100
	}
	if pct > p.last {
		p.last = pct
		p.progress(pct)
	}
}
