// Package connection provides the server connection for lorikv-cli.
package connection

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// Reply kinds, matching the wire type bytes.
const (
	KindSimple  = '+'
	KindError   = '-'
	KindInteger = ':'
	KindBulk    = '$'
	KindArray   = '*'
)

// Reply is one decoded server reply.
type Reply struct {
	Kind  byte
	Str   string
	Int   int64
	Null  bool
	Elems []Reply
}

// IsError reports whether the reply is an error reply.
func (r Reply) IsError() bool {
	return r.Kind == KindError
}

// Format renders the reply the way an interactive client prints it.
func (r Reply) Format() string {
	return r.format("")
}

func (r Reply) format(indent string) string {
	switch r.Kind {
	case KindSimple:
		return r.Str
	case KindError:
		return "(error) " + r.Str
	case KindInteger:
		return "(integer) " + strconv.FormatInt(r.Int, 10)
	case KindBulk:
		if r.Null {
			return "(nil)"
		}
		return strconv.Quote(r.Str)
	case KindArray:
		if len(r.Elems) == 0 {
			return "(empty array)"
		}
		var b strings.Builder
		for i, el := range r.Elems {
			if i > 0 {
				b.WriteString("\n")
				b.WriteString(indent)
			}
			b.WriteString(strconv.Itoa(i+1) + ") ")
			b.WriteString(el.format(indent + "   "))
		}
		return b.String()
	default:
		return "(unknown reply)"
	}
}

// Client is a connection to a LoriKV server.
type Client struct {
	conn    net.Conn
	br      *bufio.Reader
	bw      *bufio.Writer
	timeout time.Duration
}

// Dial connects to the server at addr. The timeout applies to the
// dial and to each subsequent request/reply exchange.
func Dial(addr string, timeout time.Duration) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	return &Client{
		conn:    conn,
		br:      bufio.NewReader(conn),
		bw:      bufio.NewWriter(conn),
		timeout: timeout,
	}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Do sends one command and reads its reply.
func (c *Client) Do(args ...string) (Reply, error) {
	if len(args) == 0 {
		return Reply{}, errors.New("empty command")
	}

	if c.timeout > 0 {
		if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
			return Reply{}, err
		}
	}

	c.bw.WriteString("*" + strconv.Itoa(len(args)) + "\r\n")
	for _, a := range args {
		c.bw.WriteString("$" + strconv.Itoa(len(a)) + "\r\n")
		c.bw.WriteString(a)
		c.bw.WriteString("\r\n")
	}
	if err := c.bw.Flush(); err != nil {
		return Reply{}, fmt.Errorf("send command: %w", err)
	}

	return c.readReply()
}

func (c *Client) readReply() (Reply, error) {
	line, err := c.readLine()
	if err != nil {
		return Reply{}, err
	}
	if len(line) == 0 {
		return Reply{}, errors.New("empty reply line")
	}

	switch line[0] {
	case KindSimple:
		return Reply{Kind: KindSimple, Str: line[1:]}, nil
	case KindError:
		return Reply{Kind: KindError, Str: line[1:]}, nil
	case KindInteger:
		n, err := strconv.ParseInt(line[1:], 10, 64)
		if err != nil {
			return Reply{}, fmt.Errorf("bad integer reply %q", line)
		}
		return Reply{Kind: KindInteger, Int: n}, nil
	case KindBulk:
		n, err := strconv.Atoi(line[1:])
		if err != nil {
			return Reply{}, fmt.Errorf("bad bulk header %q", line)
		}
		if n < 0 {
			return Reply{Kind: KindBulk, Null: true}, nil
		}
		buf := make([]byte, n+2)
		if _, err := io.ReadFull(c.br, buf); err != nil {
			return Reply{}, fmt.Errorf("read bulk body: %w", err)
		}
		return Reply{Kind: KindBulk, Str: string(buf[:n])}, nil
	case KindArray:
		n, err := strconv.Atoi(line[1:])
		if err != nil {
			return Reply{}, fmt.Errorf("bad array header %q", line)
		}
		if n < 0 {
			return Reply{Kind: KindArray, Null: true}, nil
		}
		elems := make([]Reply, 0, n)
		for i := 0; i < n; i++ {
			el, err := c.readReply()
			if err != nil {
				return Reply{}, err
			}
			elems = append(elems, el)
		}
		return Reply{Kind: KindArray, Elems: elems}, nil
	default:
		return Reply{}, fmt.Errorf("unknown reply type %q", line[0])
	}
}

func (c *Client) readLine() (string, error) {
	line, err := c.br.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read reply: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
