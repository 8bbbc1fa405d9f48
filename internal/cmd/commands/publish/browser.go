package publish

import (
	"fmt"
	"io"

	"github.com/pkg/browser"
)

// openBrowser opens the published page in the user's default browser.
var openBrowser = func(url string) error {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard

	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("error opening browser: %w", err)
	}
	return nil
}
