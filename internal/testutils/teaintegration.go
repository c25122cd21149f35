package testutils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/x/vt"
	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

var errReadTimeout = errors.New("timeout while reading")

// TerminalProgram drives a binary through a pseudo terminal, the way a user
// would run the OSD.
type TerminalProgram struct {
	ptmx          *os.File
	vt            *vt.Emulator
	cmd           *exec.Cmd
	doneCh        chan error
	done          sync.Once
	exitSequences []string
	mu            sync.Mutex
	outputBuffer  bytes.Buffer
}

type TerminalOption func(*terminalOptions)

type terminalOptions struct {
	width         int
	height        int
	exitSequences []string
}

func WithTerminalSize(width, height int) TerminalOption {
	return func(opts *terminalOptions) {
		opts.width = width
		opts.height = height
	}
}

func StartTerminalProgram(cmd *exec.Cmd, options ...TerminalOption) (*TerminalProgram, error) {
	opts := terminalOptions{
		width:  120,
		height: 40,
		exitSequences: []string{
			"\x1b[?1049l", // exit alternate screen
			"\x1b[?25h",   // show cursor
		},
	}
	for _, opt := range options {
		opt(&opts)
	}

	// #nosec G115 -- terminal sizes are small
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(opts.height), Cols: uint16(opts.width)})
	if err != nil {
		return nil, fmt.Errorf("cant start pty: %w", err)
	}
	if err := syscall.SetNonblock(int(ptmx.Fd()), true); err != nil {
		_ = ptmx.Close()
		return nil, fmt.Errorf("cant set nonblocking on pty fd: %w", err)
	}

	p := &TerminalProgram{
		ptmx:          ptmx,
		vt:            vt.NewEmulator(opts.width, opts.height),
		cmd:           cmd,
		doneCh:        make(chan error, 1),
		exitSequences: opts.exitSequences,
	}
	go func() {
		p.doneCh <- cmd.Wait()
	}()
	return p, nil
}

func (p *TerminalProgram) Type(s string) error {
	for _, c := range s {
		if _, err := p.ptmx.Write([]byte(string(c))); err != nil {
			return fmt.Errorf("cant write %s: %w", string(c), err)
		}
	}
	return nil
}

func (p *TerminalProgram) Send(sequence []byte) error {
	if _, err := p.ptmx.Write(sequence); err != nil {
		return fmt.Errorf("cant write the input sequence: %w", err)
	}
	return nil
}

func (p *TerminalProgram) read(buf []byte, timeout time.Duration) (int, error) {
	fd := int(p.ptmx.Fd())
	// #nosec G115 -- file descriptors fit into int32
	pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}

	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, errReadTimeout
		}

		n, err := unix.Poll(pollFds, int(remaining.Milliseconds()))
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("cant poll: %w", err)
		}
		if n == 0 {
			return 0, errReadTimeout
		}
		if pollFds[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 &&
			pollFds[0].Revents&unix.POLLIN == 0 {
			return 0, io.EOF
		}

		read, err := syscall.Read(fd, buf)
		if errors.Is(err, syscall.EAGAIN) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("cant read data: %w", err)
		}
		if read == 0 {
			return 0, io.EOF
		}

		p.mu.Lock()
		p.outputBuffer.Write(buf[:read])
		p.mu.Unlock()
		return read, nil
	}
}

// WaitFor reads the terminal output until condition holds for everything
// rendered so far.
func (p *TerminalProgram) WaitFor(condition func(bts []byte) bool, timeout time.Duration) error {
	buf := make([]byte, 4096)
	start := time.Now()
	for time.Since(start) <= timeout {
		_, err := p.read(buf, 50*time.Millisecond)
		if err != nil && !errors.Is(err, errReadTimeout) {
			return fmt.Errorf("WaitFor: %w", err)
		}

		p.mu.Lock()
		met := condition(p.outputBuffer.Bytes())
		p.mu.Unlock()
		if met {
			return nil
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Errorf("WaitFor: condition not met after %s. Last frames:\n %q", timeout, p.outputBuffer.String())
}

// FinalScreen waits for the program to exit and returns what the terminal
// showed right before the exit sequences.
func (p *TerminalProgram) FinalScreen(timeout time.Duration) (string, error) {
	var doneErr error
	p.done.Do(func() {
		buf := make([]byte, 4096)
		deadline := time.Now().Add(timeout)
		for {
			select {
			case doneErr = <-p.doneCh:
				// drain what is left in the pty
				for {
					if _, err := p.read(buf, 20*time.Millisecond); err != nil {
						break
					}
				}
				_ = p.ptmx.Close()
				return
			default:
			}
			if time.Now().After(deadline) {
				doneErr = errors.New("timeout while waiting for the program to exit")
				_ = p.cmd.Process.Kill()
				return
			}
			if _, err := p.read(buf, 50*time.Millisecond); err != nil && !errors.Is(err, errReadTimeout) &&
				!errors.Is(err, io.EOF) && !errors.Is(err, syscall.EIO) {
				doneErr = err
				return
			}
		}
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	data := p.outputBuffer.Bytes()
	if exitPos := firstIndex(data, p.exitSequences); exitPos != -1 {
		data = data[:exitPos]
	}
	if _, err := p.vt.Write(data); err != nil {
		return "", fmt.Errorf("cant hydrate virtual terminal: %w", err)
	}
	if doneErr != nil {
		return p.vt.String(), fmt.Errorf("program exited: %w", doneErr)
	}
	return p.vt.String(), nil
}

func firstIndex(data []byte, sequences []string) int {
	minPos := -1
	for _, seq := range sequences {
		if pos := bytes.Index(data, []byte(seq)); pos != -1 && (minPos == -1 || pos < minPos) {
			minPos = pos
		}
	}
	return minPos
}
