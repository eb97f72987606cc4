// Package ui renders the screens on a line-oriented terminal.
package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"timeoff-login/internal/login"
	"timeoff-login/internal/session"
)

type Terminal struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Alert prints a dialog and waits for it to be acknowledged.
func (t *Terminal) Alert(title, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "\n[%s] %s\n(Enter para continuar) ", title, message)
	_, _ = t.in.ReadString('\n')
}

// RenderLogin draws the login form header and inline errors.
func (t *Terminal) RenderLogin(v login.View) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "\n== %s ==\n", v.Title)
	if v.ValidationError != "" {
		fmt.Fprintf(t.out, "! %s\n", v.ValidationError)
	}
	if v.LoadError != "" {
		fmt.Fprintf(t.out, "! %s\n", v.LoadError)
	}
	if !v.SubmitEnabled {
		fmt.Fprintln(t.out, "carregando usuários...")
	}
}

// RenderPrincipal draws the screen shown after a successful login.
func (t *Terminal) RenderPrincipal(s session.Session) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "\n== Principal ==\nBem-vindo, %s\n", s.User.Username)
	fmt.Fprintf(t.out, "sessão %s desde %s\n", s.ID, s.StartedAt.Format("02/01/2006 15:04"))
}

// Prompt prints label and returns the next input line without its newline.
// io.EOF is returned once input is exhausted and nothing was typed.
func (t *Terminal) Prompt(label string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "%s: ", label)
	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
