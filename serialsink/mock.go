package serialsink

// MockPort implements Port for testing.
type MockPort struct {
	Written    []byte
	Writes     []string
	WriteError error
	CloseError error
	Closed     bool
	// MaxChunk caps how many bytes a single Write accepts. Zero means
	// unlimited. Used to exercise short-write handling.
	MaxChunk int
}

func (m *MockPort) Write(p []byte) (int, error) {
	if m.WriteError != nil {
		return 0, m.WriteError
	}
	if m.MaxChunk > 0 && len(p) > m.MaxChunk {
		p = p[:m.MaxChunk]
	}
	m.Written = append(m.Written, p...)
	m.Writes = append(m.Writes, string(p))
	return len(p), nil
}

func (m *MockPort) Close() error {
	m.Closed = true
	return m.CloseError
}
