//go:build linux || freebsd || openbsd || netbsd || dragonfly

package browser

func command(url string) (string, []string, error) {
	return "xdg-open", []string{url}, nil
}
