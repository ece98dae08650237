package fsops

// FakeDeleter implements Deleter for testing
// Records all delete calls without performing actual deletions
type FakeDeleter struct {
	Calls []string
}

func (f *FakeDeleter) Remove(path string) error {
	f.Calls = append(f.Calls, "rm:"+path)
	return nil
}

func (f *FakeDeleter) RemoveAll(path string) error {
	f.Calls = append(f.Calls, "rmall:"+path)
	return nil
}

// FakeWriter implements Writer for testing
// Keeps the last content written per path
type FakeWriter struct {
	Calls []string
	Files map[string][]byte
}

func (f *FakeWriter) WriteFile(path string, data []byte) error {
	if f.Files == nil {
		f.Files = make(map[string][]byte)
	}
	f.Calls = append(f.Calls, "write:"+path)
	f.Files[path] = append([]byte(nil), data...)
	return nil
}
