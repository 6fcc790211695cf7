package email

import (
	"context"
	"errors"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/diwise/iot-machine-alerts/internal/pkg/application/notifications"
	"github.com/matryer/is"
)

func TestSendDeliversMultipartMessage(t *testing.T) {
	is, ctx, transport, received := testSetup(t)

	err := transport.Send(ctx, "ops@example.com", notifications.Message{
		Subject: "[Critical] Overheating - Press 01",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
	})
	is.NoErr(err)

	select {
	case m := <-received:
		is.Equal(m.from, "<alerts@example.com>")
		is.Equal(m.to, "<ops@example.com>")
		is.True(strings.Contains(m.data, "Subject: [Critical] Overheating - Press 01"))
		is.True(strings.Contains(m.data, "multipart/alternative"))
		is.True(strings.Contains(m.data, "plain body"))
		is.True(strings.Contains(m.data, "<p>html body</p>"))
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestHeaderInjectionIsRejected(t *testing.T) {
	is, ctx, transport, _ := testSetup(t)

	err := transport.Send(ctx, "ops@example.com", notifications.Message{Subject: "hello\r\nBcc: someone@example.com"})
	is.True(errors.Is(err, ErrInvalidHeader))

	err = transport.Send(ctx, "ops@example.com\nBcc: x@example.com", notifications.Message{Subject: "hello"})
	is.True(errors.Is(err, ErrInvalidHeader))
}

func TestUnreachableServerFails(t *testing.T) {
	is := is.New(t)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	is.NoErr(err)
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	transport := NewSMTPTransport(Config{Host: "127.0.0.1", Port: port, From: "alerts@example.com"})
	err = transport.Send(context.Background(), "ops@example.com", notifications.Message{Subject: "x", Text: "y"})
	is.True(err != nil)
}

func TestLogTransportRecordsMessages(t *testing.T) {
	is := is.New(t)

	lt := NewLogTransport()
	is.NoErr(lt.Send(context.Background(), "ops@example.com", notifications.Message{Subject: "s"}))
	is.Equal(lt.Sent(), []Sent{{To: "ops@example.com", Subject: "s"}})
	is.True(!lt.Configured())
}

type mail struct {
	from string
	to   string
	data string
}

func testSetup(t *testing.T) (*is.I, context.Context, notifications.Transport, chan mail) {
	is := is.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	is.NoErr(err)
	t.Cleanup(func() { l.Close() })

	received := make(chan mail, 1)
	go serveSMTP(l, received)

	port := l.Addr().(*net.TCPAddr).Port
	transport := NewSMTPTransport(Config{Host: "127.0.0.1", Port: port, From: "alerts@example.com"})

	return is, ctx, transport, received
}

func serveSMTP(l net.Listener, received chan<- mail) {
	for {
		conn, err := l.Accept()
		if err != nil {
			return
		}

		go func(conn net.Conn) {
			defer conn.Close()

			tp := textproto.NewConn(conn)
			m := mail{}

			tp.PrintfLine("220 localhost ESMTP")

			for {
				line, err := tp.ReadLine()
				if err != nil {
					return
				}

				cmd := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
				switch cmd {
				case "EHLO", "HELO":
					tp.PrintfLine("250-localhost")
					tp.PrintfLine("250 8BITMIME")
				case "MAIL":
					m.from = strings.TrimPrefix(line, "MAIL FROM:")
					if i := strings.Index(m.from, " "); i > 0 {
						m.from = m.from[:i]
					}
					tp.PrintfLine("250 OK")
				case "RCPT":
					m.to = strings.TrimPrefix(line, "RCPT TO:")
					tp.PrintfLine("250 OK")
				case "DATA":
					tp.PrintfLine("354 go ahead")
					lines, err := tp.ReadDotLines()
					if err != nil {
						return
					}
					m.data = strings.Join(lines, "\n")
					tp.PrintfLine("250 OK " + strconv.Itoa(len(lines)))
					received <- m
				case "QUIT":
					tp.PrintfLine("221 bye")
					return
				default:
					tp.PrintfLine("250 OK")
				}
			}
		}(conn)
	}
}
