package storage

import (
	"context"
	"path"
	"sync"

	"github.com/bassista/quillpad/internal/logger"
)

// MemoryStore is an in-memory Port implementation for tests and development.
// Failures can be scripted per locator to exercise error paths.
type MemoryStore struct {
	mu       sync.RWMutex
	docs     map[string]Document
	failOpen map[string]error
	failSave map[string]error
	localDir string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:     map[string]Document{},
		failOpen: map[string]error{},
		failSave: map[string]error{},
		localDir: "/quillpad-local",
	}
}

// Put seeds a document without going through Save.
func (m *MemoryStore) Put(locator string, doc Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc.DisplayName == "" {
		doc.DisplayName = path.Base(locator)
	}
	m.docs[locator] = doc
}

// FailOpen makes the next Open calls for locator return err.
func (m *MemoryStore) FailOpen(locator string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOpen[locator] = err
}

// FailSave makes the next Save calls for locator return err.
func (m *MemoryStore) FailSave(locator string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSave[locator] = err
}

// Content returns the stored content and whether the locator exists.
func (m *MemoryStore) Content(locator string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[locator]
	return doc.Content, ok
}

func (m *MemoryStore) DefaultLocalDir() string {
	return m.localDir
}

func (m *MemoryStore) Open(_ context.Context, locator string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	logger.WithComponent("memory-store").Debugf("opening %s", locator)
	if err := m.failOpen[locator]; err != nil {
		return Document{}, err
	}
	doc, ok := m.docs[locator]
	if !ok {
		return Document{}, notFound("open", locator)
	}
	return doc, nil
}

func (m *MemoryStore) Save(_ context.Context, locator string, content string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	logger.WithComponent("memory-store").Debugf("saving %s (%d bytes)", locator, len(content))
	if err := m.failSave[locator]; err != nil {
		return "", err
	}
	name := path.Base(locator)
	m.docs[locator] = Document{DisplayName: name, Content: content, MIMEType: "text/plain; charset=utf-8"}
	return name, nil
}
