package cascade

import (
	"context"
)

// stubProvider serves a fixed document and counts lookups.
type stubProvider struct {
	doc   *Document
	code  string
	err   error
	calls int
}

func newStub(code string, data map[string]any) *stubProvider {
	return &stubProvider{doc: NewDocument(data, DocumentOptions{}), code: code}
}

func (s *stubProvider) Code() string { return s.code }

func (s *stubProvider) Get(ctx context.Context, key string, opts ...LookupOption) (Optional[any], error) {
	s.calls++
	if s.err != nil {
		return None[any](), &BackendError{Provider: s.code, Key: key, Err: s.err}
	}
	return s.doc.Get(ctx, key, opts...)
}

func (s *stubProvider) Keys(ctx context.Context, opts ...LookupOption) ([]string, error) {
	return s.doc.Keys(ctx, opts...)
}
