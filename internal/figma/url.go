package figma

import (
	"net/url"
	"regexp"
	"strings"
)

var fileIDPattern = regexp.MustCompile(`figma\.com/(file|proto|design)/([A-Za-z0-9]+)`)

// ExtractFileID returns the file key of a figma.com file, proto or design
// URL, or "" when url is not one.
func ExtractFileID(rawURL string) string {
	m := fileIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[2]
}

// EmbedURL converts a shareable Figma link into an iframe-ready URL.
// Prototype links keep their path and gain the embed parameters, file links
// are wrapped by the /embed endpoint, and anything else is returned as is.
func EmbedURL(rawURL, embedHost string) string {
	switch {
	case strings.Contains(rawURL, "figma.com/proto/"):
		u, err := url.Parse(rawURL)
		if err != nil {
			return rawURL
		}
		q := u.Query()
		q.Set("embed-host", embedHost)
		q.Set("embed-origin", embedHost)
		q.Set("hide-ui", "1")
		u.RawQuery = q.Encode()
		return u.String()

	case strings.Contains(rawURL, "figma.com/file/"):
		rest := strings.SplitN(rawURL, "/file/", 2)[1]
		fileID := strings.SplitN(rest, "/", 2)[0]
		fileID = strings.SplitN(fileID, "?", 2)[0]
		return "https://www.figma.com/embed?embed_host=" + url.QueryEscape(embedHost) +
			"&url=https://www.figma.com/file/" + fileID

	default:
		return rawURL
	}
}
