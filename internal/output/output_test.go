package output

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestWriter() (*ColoredWriter, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	w := NewColoredWriter(stdout, stderr)
	w.DisableColor()
	return w, stdout, stderr
}

func TestColoredWriter_Streams(t *testing.T) {
	w, stdout, stderr := newTestWriter()

	w.Success("built")
	w.Infof("%d files", 3)
	w.Plain("plain")
	w.Warn("careful")
	w.Errorf("failed: %s", "boom")

	assert.Equal(t, "built\n3 files\nplain\n", stdout.String())
	assert.Equal(t, "careful\nfailed: boom\n", stderr.String())
}

func TestColoredWriter_Status(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.Status(LabelPass, "linux-v6.17")
	w.Status(LabelSkip, "typescript: Issue #35")
	w.Status("NOTE", "other")

	assert.Equal(t, "[PASS] linux-v6.17\n[SKIP] typescript: Issue #35\n[NOTE] other\n", stdout.String())
}

func TestNewColoredWriter_NilWriters(t *testing.T) {
	w := NewColoredWriter(nil, nil)
	assert.NotPanics(t, func() {
		w.Info("dropped")
		w.Error("dropped")
	})
}

func TestColoredWriter_Concurrent(t *testing.T) {
	w, stdout, _ := newTestWriter()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			w.Plainf("line %d", n)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, bytes.Count(stdout.Bytes(), []byte("\n")))
}
