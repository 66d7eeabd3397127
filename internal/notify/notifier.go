package notify

import (
	"sync"

	"github.com/gen2brain/beeep"
)

// AppName shows up as the notification source on platforms that support it.
const AppName = "GoPacTimer"

type Notifier interface {
	Notify(title, body string) error
	// Alert is a notification with sound, used when the countdown expires.
	Alert(title, body string) error
}

type beeepNotifier struct{}

func (beeepNotifier) Notify(title, body string) error {
	// icon path left empty; platforms pick their own
	return beeep.Notify(title, body, "")
}

func (beeepNotifier) Alert(title, body string) error {
	return beeep.Alert(title, body, "")
}

func New() Notifier {
	beeep.AppName = AppName
	return beeepNotifier{}
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, string) error { return nil }
func (nopNotifier) Alert(string, string) error  { return nil }

// Nop discards everything, for --no-alert and tests.
func Nop() Notifier {
	return nopNotifier{}
}

// Recorder keeps every call, for tests of code that raises alerts. Safe for
// use from bubbletea command goroutines.
type Recorder struct {
	mu       sync.Mutex
	notified []string
	alerted  []string
}

func (r *Recorder) Notify(title, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notified = append(r.notified, title+": "+body)
	return nil
}

func (r *Recorder) Alert(title, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerted = append(r.alerted, title+": "+body)
	return nil
}

func (r *Recorder) Notifications() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.notified...)
}

func (r *Recorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerted...)
}
