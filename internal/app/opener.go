package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"time"
)

// OpenArticle hands a URL off to the external content viewer. The
// client's only responsibility is producing a valid URL (the title is
// passed along for viewers that accept one); whatever the viewer does
// with it is its own business.
func OpenArticle(ctx context.Context, openCommand, rawURL, title string) error {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return fmt.Errorf("invalid article url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open non-http url %q", rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var cmd *exec.Cmd
	switch {
	case openCommand != "":
		cmd = exec.CommandContext(ctx, openCommand, u.String(), title)
	case runtime.GOOS == "darwin":
		cmd = exec.CommandContext(ctx, "open", u.String())
	case runtime.GOOS == "linux":
		cmd = exec.CommandContext(ctx, "xdg-open", u.String())
	default:
		return errors.New("no opener available; set open_command in config")
	}
	return cmd.Start()
}
