package vcard

import (
	"bufio"
	"io"
	"sync"
)

// maxLineSize bounds the buffered reader used by the stream parser.
const maxLineSize = 64 * 1024

var bufRdrPool = sync.Pool{
	New: func() any {
		return bufio.NewReaderSize(nil, maxLineSize)
	},
}

func getBufRdr(r io.Reader) *bufio.Reader {
	br := bufRdrPool.Get().(*bufio.Reader)
	br.Reset(r)
	return br
}

func freeBufRdr(r *bufio.Reader) {
	r.Reset(nil)
	bufRdrPool.Put(r)
}
