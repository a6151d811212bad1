// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package fdf

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"sync"
)

var bufioReaderPool = &sync.Pool{
	New: func() any {
		return bufio.NewReaderSize(nil, 4096)
	},
}

func getBufioReader(r io.Reader) *bufio.Reader {
	br := bufioReaderPool.Get().(*bufio.Reader)
	br.Reset(r)
	return br
}

func putBufioReader(br *bufio.Reader) {
	br.Reset(nil)
	bufioReaderPool.Put(br)
}

var errHeaderLimit = errors.New("header limit reached")

// streamReader reads the text header and the binary payload from r.
// Note that this is not thread safe.
type streamReader struct {
	r  io.ReadSeeker
	br *bufio.Reader

	// Number of header bytes consumed so far and the limit.
	headerBytes int64
	headerLimit int64
}

func newStreamReader(r io.ReadSeeker, headerLimit int64) *streamReader {
	return &streamReader{
		r:           r,
		headerLimit: headerLimit,
	}
}

// readLine returns the next header line without the trailing \n or \r\n.
// It returns io.EOF when there are no more lines
// and errHeaderLimit when the header is larger than allowed.
func (e *streamReader) readLine() (string, error) {
	if e.br == nil {
		e.br = getBufioReader(e.r)
	}
	if e.headerBytes >= e.headerLimit {
		return "", errHeaderLimit
	}

	var line []byte
	for {
		b, err := e.br.ReadSlice('\n')
		line = append(line, b...)
		e.headerBytes += int64(len(b))
		if err == bufio.ErrBufferFull {
			if e.headerBytes >= e.headerLimit {
				return "", errHeaderLimit
			}
			continue
		}
		if err == io.EOF {
			if len(line) == 0 {
				return "", io.EOF
			}
			return string(bytes.TrimSuffix(line, []byte("\r"))), nil
		}
		if err != nil {
			return "", newIOError("read header", err)
		}
		line = line[:len(line)-1]
		return string(bytes.TrimSuffix(line, []byte("\r"))), nil
	}
}

// size returns the total size of the resource.
func (e *streamReader) size() (int64, error) {
	n, err := e.r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, newIOError("seek to end", err)
	}
	return n, nil
}

// readAt seeks to pos and fills b.
func (e *streamReader) readAt(pos int64, b []byte) error {
	end, err := e.size()
	if err != nil {
		return err
	}
	if pos < 0 || pos > end {
		return newIOError("seek", errors.New("offset out of range"))
	}
	if _, err := e.r.Seek(pos, io.SeekStart); err != nil {
		return newIOError("seek", err)
	}
	if _, err := io.ReadFull(e.r, b); err != nil {
		return newIOError("read payload", err)
	}
	return nil
}

// close releases pooled buffers. It does not close the underlying resource.
func (e *streamReader) close() {
	if e.br != nil {
		putBufioReader(e.br)
		e.br = nil
	}
}
