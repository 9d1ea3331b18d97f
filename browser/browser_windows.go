package browser

func command(url string) (string, []string, error) {
	return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
}
