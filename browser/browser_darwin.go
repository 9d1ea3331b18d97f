package browser

func command(url string) (string, []string, error) {
	return "open", []string{url}, nil
}
