package modelclient

import (
	"context"

	"github.com/spherical-ai/fdd-pipeline/internal/router"
)

// FakeBackend is a scriptable Backend for tests: each call pops the next
// queued (Response, error) pair, or repeats the last one if exhausted.
type FakeBackend struct {
	handle  router.ModelHandle
	results []fakeResult
	calls   int
}

type fakeResult struct {
	resp Response
	err  error
}

// NewFakeBackend builds a FakeBackend for handle with no scripted results;
// use Return/Fail to queue behavior before use.
func NewFakeBackend(handle router.ModelHandle) *FakeBackend {
	return &FakeBackend{handle: handle}
}

// Return queues a successful response.
func (f *FakeBackend) Return(content string) *FakeBackend {
	f.results = append(f.results, fakeResult{resp: Response{Content: content}})
	return f
}

// Fail queues a failure.
func (f *FakeBackend) Fail(err error) *FakeBackend {
	f.results = append(f.results, fakeResult{err: err})
	return f
}

func (f *FakeBackend) Handle() router.ModelHandle { return f.handle }

func (f *FakeBackend) Extract(ctx context.Context, req Request) (Response, error) {
	if len(f.results) == 0 {
		return Response{}, NewFatalError(errNoScriptedResult)
	}
	idx := f.calls
	if idx >= len(f.results) {
		idx = len(f.results) - 1
	}
	f.calls++
	r := f.results[idx]
	return r.resp, r.err
}

// CallCount reports how many times Extract was invoked.
func (f *FakeBackend) CallCount() int { return f.calls }

var errNoScriptedResult = fakeError("no scripted result configured")

type fakeError string

func (e fakeError) Error() string { return string(e) }
