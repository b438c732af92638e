package transport

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"
)

func TestLoopbackSendReceive(t *testing.T) {
	host, device := Pipe()
	defer host.Close()
	defer device.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := host.SendLine(ctx, "G0 X0 Y0 S0"); err != nil {
		t.Fatalf("SendLine failed: %v", err)
	}

	line, err := device.ReadLine(ctx)
	if err != nil {
		t.Fatalf("ReadLine failed: %v", err)
	}
	if line != "G0 X0 Y0 S0" {
		t.Errorf("line = %q", line)
	}

	if err := device.SendLine(ctx, "ok"); err != nil {
		t.Fatalf("reply SendLine failed: %v", err)
	}
	reply, err := host.ReadLine(ctx)
	if err != nil {
		t.Fatalf("reply ReadLine failed: %v", err)
	}
	if reply != "ok" {
		t.Errorf("reply = %q", reply)
	}
}

func TestLoopbackReadTimeout(t *testing.T) {
	host, device := Pipe()
	defer host.Close()
	defer device.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := host.ReadLine(ctx)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("ReadLine error = %v, want ErrTimeout", err)
	}
}

func TestLoopbackClose(t *testing.T) {
	host, device := Pipe()

	if err := host.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Idempotent.
	if err := host.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	ctx := context.Background()
	if _, err := host.ReadLine(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("ReadLine after close = %v, want ErrClosed", err)
	}
	if err := device.SendLine(ctx, "x"); !errors.Is(err, ErrClosed) {
		t.Errorf("SendLine to closed peer = %v, want ErrClosed", err)
	}
}

// startEchoServer runs a line echo server and returns its address.
func startEchoServer(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				scanner := bufio.NewScanner(c)
				for scanner.Scan() {
					c.Write([]byte("echo:" + scanner.Text() + "\n"))
				}
			}(conn)
		}
	}()

	return ln.Addr().String()
}

func TestTCPTransport(t *testing.T) {
	addr := startEchoServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	tr, err := OpenTCP(ctx, addr)
	if err != nil {
		t.Fatalf("OpenTCP failed: %v", err)
	}
	defer tr.Close()

	if got := tr.Address(); got != addr {
		t.Errorf("Address = %q, want %q", got, addr)
	}

	if err := tr.SendLine(ctx, "?"); err != nil {
		t.Fatalf("SendLine failed: %v", err)
	}
	line, err := tr.ReadLine(ctx)
	if err != nil {
		t.Fatalf("ReadLine failed: %v", err)
	}
	if line != "echo:?" {
		t.Errorf("line = %q, want %q", line, "echo:?")
	}
}

func TestTCPReadTimeout(t *testing.T) {
	// A server that accepts but never replies.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		time.Sleep(time.Second)
	}()

	tr, err := OpenTCP(context.Background(), ln.Addr().String())
	if err != nil {
		t.Fatalf("OpenTCP failed: %v", err)
	}
	defer tr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = tr.ReadLine(ctx)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("ReadLine error = %v, want ErrTimeout", err)
	}
}

func TestTCPCloseIdempotent(t *testing.T) {
	addr := startEchoServer(t)

	tr, err := OpenTCP(context.Background(), addr)
	if err != nil {
		t.Fatalf("OpenTCP failed: %v", err)
	}

	if err := tr.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if err := tr.SendLine(context.Background(), "x"); !errors.Is(err, ErrClosed) {
		t.Errorf("SendLine after close = %v, want ErrClosed", err)
	}
}

func TestTCPStripsCarriageReturn(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write([]byte("ok\r\n"))
		// Hold the connection open until the client is done.
		bufio.NewReader(conn).ReadString('\n')
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	tr, err := OpenTCP(ctx, ln.Addr().String())
	if err != nil {
		t.Fatalf("OpenTCP failed: %v", err)
	}
	defer tr.Close()

	line, err := tr.ReadLine(ctx)
	if err != nil {
		t.Fatalf("ReadLine failed: %v", err)
	}
	if strings.ContainsAny(line, "\r\n") || line != "ok" {
		t.Errorf("line = %q, want %q", line, "ok")
	}
}
