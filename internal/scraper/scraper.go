package scraper

import (
	"time"

	"github.com/voltscout/supplier-scraper/internal/browser"
)

// Page is the browser surface one scrape operation drives. A page is
// exclusively owned by the operation that created it and must be closed on
// every exit path.
type Page interface {
	Navigate(url string) error
	WaitForAny(selector string, timeout time.Duration) error
	ScrollToEnd() error
	Content() (string, error)
	Close() error
}

// Browser hands out pages. Implemented by the playwright session for real
// runs and by fixtures in tests.
type Browser interface {
	NewPage() (Page, error)
}

type sessionBrowser struct {
	session *browser.Session
}

func (b sessionBrowser) NewPage() (Page, error) {
	return b.session.NewPage()
}

// FromSession adapts a playwright session to the Browser capability.
func FromSession(s *browser.Session) Browser {
	return sessionBrowser{session: s}
}
