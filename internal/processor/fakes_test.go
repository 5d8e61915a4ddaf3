package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"resume-insights/internal/analysis"
	"resume-insights/internal/storage"
)

const sampleResume = `Jane Doe
jane.doe@example.com | (555) 123-4567 | linkedin.com/in/janedoe

SUMMARY
Software engineer with 8 years of experience building cloud services.

EXPERIENCE
Senior Software Engineer, Acme Corp
Led migration of 40 services to Kubernetes and reduced deploy time by 60%.
Developed CI/CD pipelines in Go and Python using Docker and AWS.
Mentored 5 engineers and improved code review throughput.

EDUCATION
B.S. Computer Science, State University, 2015

SKILLS
Go, Python, Java, SQL, Docker, Kubernetes, AWS, Git, Agile
`

// stubExtractor 返回固定文本或错误
type stubExtractor struct {
	exts  []string
	text  string
	err   error
	calls int
	mu    sync.Mutex
}

func (e *stubExtractor) SupportedExtensions() []string { return e.exts }

func (e *stubExtractor) ExtractText(_ context.Context, r io.Reader, _ string) (string, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	return e.text, e.err
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string]*analysis.Result
	ttls map[string]time.Duration
	err  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]*analysis.Result{}, ttls: map[string]time.Duration{}}
}

func (c *memoryCache) GetAnalysis(_ context.Context, digest string) (*analysis.Result, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, false, c.err
	}
	res, ok := c.data[digest]
	return res, ok, nil
}

func (c *memoryCache) SetAnalysis(_ context.Context, digest string, res *analysis.Result, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[digest] = res
	c.ttls[digest] = ttl
	return nil
}

type memoryStager struct {
	mu       sync.Mutex
	objects  map[string][]byte
	removed  []string
	stageErr error
}

func newMemoryStager() *memoryStager {
	return &memoryStager{objects: map[string][]byte{}}
}

func (m *memoryStager) StageDocument(_ context.Context, id, filename string, data []byte) (string, error) {
	if m.stageErr != nil {
		return "", m.stageErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := storage.StagingObjectKey(id, filename, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	m.objects[key] = append([]byte(nil), data...)
	return key, nil
}

func (m *memoryStager) FetchDocument(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return data, nil
}

func (m *memoryStager) RemoveDocument(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.removed = append(m.removed, key)
	return nil
}

type memoryPublisher struct {
	mu       sync.Mutex
	messages []*storage.AnalysisTaskMessage
	err      error
}

func (p *memoryPublisher) PublishTask(_ context.Context, msg *storage.AnalysisTaskMessage) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

type memorySubmissions struct {
	mu      sync.Mutex
	records map[string]storage.SubmissionRecord
	history []storage.SubmissionStatus
	saveErr error
}

func newMemorySubmissions() *memorySubmissions {
	return &memorySubmissions{records: map[string]storage.SubmissionRecord{}}
}

func (m *memorySubmissions) SaveSubmission(_ context.Context, rec *storage.SubmissionRecord, _ time.Duration) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.SubmissionID] = *rec
	m.history = append(m.history, rec.Status)
	return nil
}

func (m *memorySubmissions) GetSubmission(_ context.Context, id string) (*storage.SubmissionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &rec, nil
}

type memoryLocker struct {
	mu    sync.Mutex
	held  map[string]string
	count int
}

func newMemoryLocker() *memoryLocker {
	return &memoryLocker{held: map[string]string{}}
}

func (l *memoryLocker) AcquireLock(_ context.Context, key string, _ time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return "", nil
	}
	l.count++
	token := fmt.Sprintf("token-%d", l.count)
	l.held[key] = token
	return token, nil
}

func (l *memoryLocker) ReleaseLock(_ context.Context, key, value string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] != value {
		return false, nil
	}
	delete(l.held, key)
	return true, nil
}

var errBroker = errors.New("broker unavailable")
