package tui

import (
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pageza/recipe-finder/internal/service"
	"go.uber.org/zap"
)

type (
	showFormMsg     struct{ form service.Form }
	dismissFormMsg  struct{ form service.Form }
	resetFormMsg    struct{ form service.Form }
	formMessageMsg  struct {
		form    service.Form
		message string
	}
	identityMsg   struct{ firstName string }
	accountMsg    struct{ loggedIn bool }
	openDetailMsg struct{ recipeID string }
	redrawMsg     struct{}
	statusMsg     struct{ text string }
)

// Surface receives calls from the controllers on any goroutine and delivers
// them, in order, to the running program as messages. Delivery never blocks
// the caller, so it is safe to call from inside Update.
type Surface struct {
	mu      sync.Mutex
	program *tea.Program
	queue   []tea.Msg
	wake    chan struct{}
	done    chan struct{}
	stop    sync.Once

	open   func(url string) error
	logger *zap.Logger
}

// NewSurface creates a Surface. Messages posted before Attach are held.
func NewSurface(logger *zap.Logger) *Surface {
	return &Surface{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		open:   openBrowser,
		logger: logger,
	}
}

// Attach starts delivering messages to p
func (s *Surface) Attach(p *tea.Program) {
	s.mu.Lock()
	s.program = p
	s.mu.Unlock()
	go s.pump()
	s.signal()
}

// Stop ends delivery
func (s *Surface) Stop() {
	s.stop.Do(func() { close(s.done) })
}

func (s *Surface) post(msg tea.Msg) {
	s.mu.Lock()
	s.queue = append(s.queue, msg)
	s.mu.Unlock()
	s.signal()
}

func (s *Surface) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Surface) pump() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}
		for {
			s.mu.Lock()
			if len(s.queue) == 0 {
				s.mu.Unlock()
				break
			}
			msg := s.queue[0]
			s.queue = s.queue[1:]
			p := s.program
			s.mu.Unlock()
			p.Send(msg)
		}
	}
}

// pending drains the undelivered messages
func (s *Surface) pending() []tea.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.queue
	s.queue = nil
	return out
}

func (s *Surface) PresentLogin() {
	s.post(showFormMsg{form: service.FormLogin})
}

func (s *Surface) DismissForm(form service.Form) {
	s.post(dismissFormMsg{form: form})
}

func (s *Surface) ResetForm(form service.Form) {
	s.post(resetFormMsg{form: form})
}

func (s *Surface) ShowFormMessage(form service.Form, message string) {
	s.post(formMessageMsg{form: form, message: message})
}

func (s *Surface) SetIdentity(firstName string) {
	s.post(identityMsg{firstName: firstName})
}

func (s *Surface) SetAccountRegion(loggedIn bool) {
	s.post(accountMsg{loggedIn: loggedIn})
}

// OpenDetail shows the overlay of recipeID
func (s *Surface) OpenDetail(recipeID string) {
	s.post(openDetailMsg{recipeID: recipeID})
}

// Navigate opens url in the system browser
func (s *Surface) Navigate(url string) {
	if err := s.open(url); err != nil {
		s.logger.Warn("failed to open recipe page", zap.String("url", url), zap.Error(err))
		s.post(statusMsg{text: fmt.Sprintf("Open %s in your browser", url)})
		return
	}
	s.logger.Debug("opened recipe page", zap.String("url", url))
}

// Changed requests a redraw after the result views changed
func (s *Surface) Changed() {
	s.post(redrawMsg{})
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
