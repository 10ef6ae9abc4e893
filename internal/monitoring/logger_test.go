package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) { called = true })
	Logf("interpolating %d cells", 100)
	if !called {
		t.Error("custom logger was not called")
	}

	// nil installs a no-op, not a nil function
	SetLogger(nil)
	if Logf == nil {
		t.Fatal("Logf must never be nil")
	}
	Logf("should not panic")
}
