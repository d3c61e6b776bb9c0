package cast

import (
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/castgrep/internal/util"
)

// tailReader turns EOF on a growing recording into a blocking wait for
// more data. The stream ends for real when the file is removed,
// renamed, truncated, or replaced by a different file (inode or head
// fingerprint change).
type tailReader struct {
	file    *os.File
	path    string
	watcher *fsnotify.Watcher
	inode   uint64
	headFP  string
	headLen int64
}

func newTailReader(file *os.File, path string) (*tailReader, error) {
	info, err := util.GetFileInfo(path)
	if err != nil {
		return nil, err
	}

	headLen := info.Size
	if headLen > util.HeadFingerprintSize {
		headLen = util.HeadFingerprintSize
	}
	headFP := ""
	if headLen > 0 {
		headFP, err = util.CalculateHeadFingerprint(path, headLen)
		if err != nil {
			return nil, err
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}

	return &tailReader{
		file:    file,
		path:    path,
		watcher: watcher,
		inode:   info.Inode,
		headFP:  headFP,
		headLen: headLen,
	}, nil
}

func (t *tailReader) Read(p []byte) (int, error) {
	for {
		n, err := t.file.Read(p)
		if n > 0 {
			return n, nil
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		if !t.waitForGrowth() {
			return 0, io.EOF
		}
	}
}

// waitForGrowth blocks until the file has more data. It returns false
// when the recording ended: watched file gone or no longer the file we
// started reading.
func (t *tailReader) waitForGrowth() bool {
	for {
		select {
		case event, ok := <-t.watcher.Events:
			if !ok {
				return false
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				util.LogDebug(fmt.Sprintf("Recording %s removed, ending follow", t.path))
				return false
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !t.sameRecording() {
				return false
			}
			return true

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return false
			}
			util.LogError("Follow watch error: " + err.Error())
			return false
		}
	}
}

// sameRecording re-checks file identity after a write event.
func (t *tailReader) sameRecording() bool {
	info, err := util.GetFileInfo(t.path)
	if err != nil {
		return false
	}
	if info.Inode != t.inode {
		util.LogDebug(fmt.Sprintf("Recording %s rotated (inode changed), ending follow", t.path))
		return false
	}

	offset, err := t.file.Seek(0, io.SeekCurrent)
	if err != nil || info.Size < offset {
		util.LogDebug(fmt.Sprintf("Recording %s truncated, ending follow", t.path))
		return false
	}

	if t.headLen > 0 {
		fp, err := util.CalculateHeadFingerprint(t.path, t.headLen)
		if err != nil || fp != t.headFP {
			util.LogDebug(fmt.Sprintf("Recording %s rewritten from start, ending follow", t.path))
			return false
		}
	}
	return true
}

func (t *tailReader) Close() error {
	t.watcher.Close()
	return t.file.Close()
}
