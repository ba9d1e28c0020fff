// Package kurl implements the kernel's URL value type: a lossless,
// total decomposition of a "scheme://[user[:pass]@]host[:port]/path" string
// into its structural parts, grounded on the original kernel's own split-by
// "/" grammar rather than net/url's RFC 3986 parser (which would reject or
// normalize strings this kernel's schemes rely on passing through as-is).
package kurl

import "strings"

// URL wraps a string in the kernel's wire format. Equality and cloning are
// by the underlying string; there is no normalization.
type URL struct {
	raw string
}

// New wraps a string as a URL. Parsing is lazy and total: every accessor
// below is pure and returns "" for a part that isn't present.
func New(raw string) URL {
	return URL{raw: raw}
}

// String returns the original URL string.
func (u URL) String() string {
	return u.raw
}

// split breaks the URL into its "/"-delimited segments, the same way the
// kernel's original parser does: index 0 is "scheme:", index 1 is always
// empty (the two slashes after the colon), index 2 is the authority, and
// index 3+ is the path.
func (u URL) split() []string {
	return strings.Split(u.raw, "/")
}

// Scheme returns the text before the first ":" in the first "/"-segment.
func (u URL) Scheme() string {
	parts := u.split()
	if len(parts) == 0 {
		return ""
	}
	if idx := strings.Index(parts[0], ":"); idx >= 0 {
		return parts[0][:idx]
	}
	return parts[0]
}

// authority returns the third "/"-segment (index 2), the
// "[user[:pass]@]host[:port]" portion of the URL.
func (u URL) authority() string {
	parts := u.split()
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

// userinfoAndHostport splits the authority on "@". When there is no "@",
// the single part is the host/port, not the userinfo — swapping which
// half ends up as which matches the original parser's behavior exactly.
func (u URL) userinfoAndHostport() (userinfo, hostport string) {
	authority := u.authority()
	if authority == "" {
		return "", ""
	}
	at := strings.Split(authority, "@")
	switch len(at) {
	case 1:
		return "", at[0]
	default:
		return at[0], at[1]
	}
}

// Username returns the "user" portion of "user[:pass]@host[:port]".
func (u URL) Username() string {
	userinfo, _ := u.userinfoAndHostport()
	if userinfo == "" {
		return ""
	}
	return strings.SplitN(userinfo, ":", 2)[0]
}

// Password returns the "pass" portion of "user[:pass]@host[:port]".
func (u URL) Password() string {
	userinfo, _ := u.userinfoAndHostport()
	parts := strings.SplitN(userinfo, ":", 2)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// Host returns the "host" portion of "user[:pass]@host[:port]".
func (u URL) Host() string {
	_, hostport := u.userinfoAndHostport()
	if hostport == "" {
		return ""
	}
	return strings.SplitN(hostport, ":", 2)[0]
}

// Port returns the "port" portion of "user[:pass]@host[:port]".
func (u URL) Port() string {
	_, hostport := u.userinfoAndHostport()
	parts := strings.SplitN(hostport, ":", 2)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// Opaque returns everything after the scheme's colon when raw has no "//"
// authority section at all (e.g. "memory:4096"), the bare opaque-URI shape
// a size-only or name-only scheme uses. It returns "" for hierarchical
// URLs that do carry an authority or path, where Path/Host already cover
// the string's content.
func (u URL) Opaque() string {
	idx := strings.Index(u.raw, ":")
	if idx < 0 {
		return ""
	}
	rest := u.raw[idx+1:]
	if strings.HasPrefix(rest, "/") {
		return ""
	}
	return rest
}

// Path returns every "/"-segment from index 3 onward, rejoined with "/".
// A trailing empty segment (from a trailing "/" in the original string) is
// preserved, so "file:///apps/" has path "apps/", not "apps".
func (u URL) Path() string {
	parts := u.split()
	if len(parts) <= 3 {
		return ""
	}
	return strings.Join(parts[3:], "/")
}

// PathParts returns the path as individual segments, from index 3 onward.
func (u URL) PathParts() []string {
	parts := u.split()
	if len(parts) <= 3 {
		return nil
	}
	out := make([]string, len(parts)-3)
	copy(out, parts[3:])
	return out
}
