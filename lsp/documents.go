package lsp

import (
	"sync"
)

// Document is an open equation file and its latest analysis.
type Document struct {
	URI     string
	Version int32
	Text    string
	Reports []Report
}

// Report returns the analysis of the given line, if the line holds an
// equation.
func (d *Document) Report(line int) (Report, bool) {
	for _, r := range d.Reports {
		if r.Line == line {
			return r, true
		}
	}
	return Report{}, false
}

// Documents holds the open documents of a session.
type Documents struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

func NewDocuments() *Documents {
	return &Documents{
		docs: make(map[string]*Document),
	}
}

// Update analyzes text and stores it as the content of uri.
func (s *Documents) Update(uri string, version int32, text string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Text:    text,
		Reports: Analyze(text),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = doc
	return doc
}

func (s *Documents) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

func (s *Documents) Remove(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

func (s *Documents) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
