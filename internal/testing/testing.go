// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/catalogai/internal/services"
)

// MockChatModel is a test double for [services.ChatModel].
//
// Replies are returned in order, one per call; Err, when set, is returned instead. Every history the
// model receives is recorded so tests can assert on call count and carried context.
type MockChatModel struct {
	mu       sync.Mutex
	Replies  []string
	Err      error
	ErrAt    int
	Calls    [][]services.Turn
	NameText string
}

// NewMockChatModel returns a model that answers with replies in order.
func NewMockChatModel(replies ...string) *MockChatModel {
	return &MockChatModel{Replies: replies, ErrAt: -1}
}

// FailingChatModel returns a model that fails on call number at (0-based) with err.
func FailingChatModel(err error, at int, replies ...string) *MockChatModel {
	return &MockChatModel{Replies: replies, Err: err, ErrAt: at}
}

func (m *MockChatModel) Generate(ctx context.Context, history []services.Turn) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := len(m.Calls)
	m.Calls = append(m.Calls, append([]services.Turn(nil), history...))

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil && (m.ErrAt < 0 || m.ErrAt == call) {
		return "", m.Err
	}
	if call >= len(m.Replies) {
		return "", fmt.Errorf("mock: no reply for call %d", call)
	}
	return m.Replies[call], nil
}

func (m *MockChatModel) Name() string {
	if m.NameText == "" {
		return "Mock"
	}
	return m.NameText
}

// CallCount returns the number of Generate calls made so far.
func (m *MockChatModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// NewJSONResponse builds an in-memory HTTP response for use with [MockRoundTripper].
func NewJSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}
