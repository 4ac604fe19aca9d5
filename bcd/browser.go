package bcd

import (
	"fmt"
	"strings"
)

// Browser identifies one of the rendering engines support is reported for.
// The set is closed, every per-browser computation ranges over Browsers().
type Browser int

const (
	Chrome Browser = iota
	Firefox
	Safari

	// BrowserCount is the number of supported browsers. Per-browser data is
	// kept in arrays of this size indexed by Browser.
	BrowserCount = int(Safari) + 1
)

var (
	browserIDs    = [BrowserCount]string{"chrome", "firefox", "safari"}
	browserTitles = [BrowserCount]string{"Chrome", "Firefox", "Safari"}
)

// Browsers returns all supported browsers in reporting order.
func Browsers() []Browser {
	return []Browser{Chrome, Firefox, Safari}
}

// ParseBrowser converts knowledge base browser identifier into Browser.
func ParseBrowser(id string) (Browser, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for i, name := range browserIDs {
		if name == id {
			return Browser(i), nil
		}
	}
	return 0, fmt.Errorf("%q is not a supported browser (supported: %s)", id, strings.Join(browserIDs[:], ", "))
}

// String returns knowledge base identifier of the browser.
func (b Browser) String() string {
	if b < 0 || int(b) >= BrowserCount {
		return fmt.Sprintf("Browser(%d)", int(b))
	}
	return browserIDs[b]
}

// Title returns display name of the browser.
func (b Browser) Title() string {
	if b < 0 || int(b) >= BrowserCount {
		return b.String()
	}
	return browserTitles[b]
}

// MarshalText allows Browser to be used as a map key and a value in json and yaml documents.
func (b Browser) MarshalText() ([]byte, error) {
	if b < 0 || int(b) >= BrowserCount {
		return nil, fmt.Errorf("invalid browser %d", int(b))
	}
	return []byte(browserIDs[b]), nil
}

func (b *Browser) UnmarshalText(text []byte) error {
	v, err := ParseBrowser(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}
