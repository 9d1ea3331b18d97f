package browser

// SetStart replaces the function that launches the handler.
func SetStart(a *Activator, fn func(name string, args ...string) error) {
	a.start = fn
}

// Command exports command for testing.
func Command(url string) (string, []string, error) {
	return command(url)
}
