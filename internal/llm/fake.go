package llm

import "context"

// FakeClient returns a canned response for offline use and tests.
type FakeClient struct {
	Response string
	Err      error
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateText(_ context.Context, _ string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	return f.Response, nil
}

var _ Client = (*FakeClient)(nil)
