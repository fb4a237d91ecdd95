// Utilities for importing a browser session from a cURL command.
//
// The web app authenticates with a session cookie; "Copy as cURL" from the
// browser DevTools captures it, and shelf can join that session instead of
// logging in again.
package shared

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
)

// CurlSession represents headers and cookies parsed from a cURL command.
type CurlSession struct {
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a .sh file containing a cURL command and extracts the session.
func ParseCurlFile(filepath string) (*CurlSession, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(content)
}

// ParseCurlCommand parses a cURL command string and extracts headers and the cookie line.
func ParseCurlCommand(data []byte) (*CurlSession, error) {
	curlCmd := string(data)
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	headers := make(map[string]string)
	var cookie string

	headerRegex := regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	matches := headerRegex.FindAllStringSubmatch(curlCmd, -1)

	for _, match := range matches {
		headerLine := match[1]
		if headerLine == "" {
			headerLine = match[2]
		}

		parts := strings.SplitN(headerLine, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if strings.EqualFold(key, "cookie") {
			cookie = value
		} else {
			headers[key] = value
		}
	}

	// curl's -b flag also carries cookies
	if cookie == "" {
		cookieRegex := regexp.MustCompile(`-b\s+'([^']+)'|-b\s+"([^"]+)"`)
		if cookieMatches := cookieRegex.FindStringSubmatch(curlCmd); len(cookieMatches) > 1 {
			cookie = cookieMatches[1]
			if cookie == "" {
				cookie = cookieMatches[2]
			}
		}
	}

	if len(headers) == 0 && cookie == "" {
		return nil, fmt.Errorf("no headers found in curl command")
	}

	return &CurlSession{
		Headers: headers,
		Cookie:  cookie,
	}, nil
}

// Cookies converts the parsed cookie line into [http.Cookie] values suitable
// for a cookie jar.
func (c *CurlSession) Cookies() []*http.Cookie {
	var cookies []*http.Cookie
	for _, pair := range strings.Split(c.Cookie, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: parts[0], Value: parts[1], Path: "/"})
	}
	return cookies
}
