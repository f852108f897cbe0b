package model

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// maxAgeSeconds is the largest Max-Age that fits in a time.Duration
const maxAgeSeconds = math.MaxInt64 / int64(time.Second)

// Cookie is a server-issued state token scoped by domain and name
type Cookie struct {
	Domain   string
	Path     string
	Name     string
	Value    string
	Secure   bool
	HTTPOnly bool
	// Expires is nil for session cookies
	Expires *time.Time
}

// IsValid reports whether domain, name and value are all non-blank
func (c Cookie) IsValid() bool {
	return strings.TrimSpace(c.Domain) != "" &&
		strings.TrimSpace(c.Name) != "" &&
		strings.TrimSpace(c.Value) != ""
}

// IsExpired reports whether the cookie carries an expiry that is not after now
func (c Cookie) IsExpired(now time.Time) bool {
	return c.Expires != nil && !c.Expires.After(now)
}

// String lists the cookie attributes as Key=value pairs
func (c Cookie) String() string {
	expires := ""
	if c.Expires != nil {
		expires = c.Expires.Format(time.RFC3339)
	}
	return fmt.Sprintf("Domain=%s Path=%s Name=%s Value=%s Secure=%t HttpOnly=%t Expires=%s",
		c.Domain, c.Path, c.Name, c.Value, c.Secure, c.HTTPOnly, expires)
}

// ParseCookie parses one Set-Cookie segment. The second result is false
// when the segment does not start with a name=value pair.
func ParseCookie(raw string, now time.Time) (Cookie, bool) {
	parts := strings.Split(raw, ";")
	name, value, ok := strings.Cut(parts[0], "=")
	if !ok {
		return Cookie{}, false
	}

	cookie := Cookie{
		Name:  strings.TrimSpace(name),
		Value: strings.TrimSpace(value),
	}

	for _, part := range parts[1:] {
		key, val, _ := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		switch key {
		case "Domain":
			cookie.Domain = val
		case "Secure":
			cookie.Secure = true
		case "HttpOnly":
			cookie.HTTPOnly = true
		case "Path":
			cookie.Path = val
		case "Expires":
			if t, err := http.ParseTime(val); err == nil {
				cookie.Expires = &t
			}
		case "Max-Age":
			seconds, err := strconv.ParseInt(val, 10, 64)
			if errors.Is(err, strconv.ErrRange) && seconds > 0 {
				err = nil
			}
			if err == nil {
				if seconds > maxAgeSeconds {
					seconds = maxAgeSeconds
				}
				t := now.Add(time.Duration(seconds) * time.Second)
				cookie.Expires = &t
			}
		}
	}

	return cookie, true
}

// ParseCookies parses a Set-Cookie value holding one or more cookies joined
// by commas. A comma inside an Expires date does not start a new cookie.
func ParseCookies(setCookie string, now time.Time) []Cookie {
	if strings.TrimSpace(setCookie) == "" {
		return nil
	}

	var segments []string
	for _, segment := range strings.Split(setCookie, ",") {
		first, _, _ := strings.Cut(segment, ";")
		if len(segments) > 0 && !strings.Contains(first, "=") {
			segments[len(segments)-1] += "," + segment
			continue
		}
		segments = append(segments, segment)
	}

	cookies := make([]Cookie, 0, len(segments))
	for _, segment := range segments {
		if cookie, ok := ParseCookie(segment, now); ok {
			cookies = append(cookies, cookie)
		}
	}
	return cookies
}
