package stdlib

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

var ErrNoInput = errors.New("stdlib/console: no more input")

// InputError reports a word on the input channel that is not an integer.
type InputError struct {
	Word string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("stdlib/console: bad integer %q: %v", e.Word, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// Console is the integer I/O channel for getint and putint. Input is read as
// whitespace-separated words; output is one decimal integer per line.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
	buf []byte
}

func NewConsole(r io.Reader, w io.Writer) *Console {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	return &Console{in: s, out: w}
}

func (c *Console) ReadInt() (int64, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return 0, err
		}
		return 0, ErrNoInput
	}
	word := c.in.Text()
	n, err := strconv.ParseInt(word, 10, 64)
	if err != nil {
		return 0, &InputError{Word: word, Err: err}
	}
	return n, nil
}

func (c *Console) WriteInt(n int64) error {
	c.buf = strconv.AppendInt(c.buf[:0], n, 10)
	c.buf = append(c.buf, '\n')
	_, err := c.out.Write(c.buf)
	return err
}
