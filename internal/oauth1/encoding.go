package oauth1

import (
	"net/url"
	"sort"
	"strings"
)

// PercentEncode encodes s per RFC 5849 section 3.6: every byte except
// ALPHA, DIGIT, '-', '.', '_' and '~' becomes %XX with uppercase hex.
func PercentEncode(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return 'A' <= c && c <= 'Z' ||
		'a' <= c && c <= 'z' ||
		'0' <= c && c <= '9' ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

// normalizeParameters sorts and joins params as described in
// RFC 5849 section 3.4.1.3.2.
func normalizeParameters(params url.Values) string {
	type pair struct{ key, value string }

	pairs := make([]pair, 0, len(params))
	for key, values := range params {
		encodedKey := PercentEncode(key)
		for _, v := range values {
			pairs = append(pairs, pair{encodedKey, PercentEncode(v)})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].key != pairs[j].key {
			return pairs[i].key < pairs[j].key
		}
		return pairs[i].value < pairs[j].value
	})

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.key + "=" + p.value
	}
	return strings.Join(parts, "&")
}

// baseStringURI builds the base string URI of RFC 5849 section 3.4.1.2:
// lowercase scheme and host, default ports dropped, no query or fragment.
func baseStringURI(scheme, host, path string) string {
	scheme = strings.ToLower(scheme)
	host = strings.ToLower(host)
	switch {
	case scheme == "http" && strings.HasSuffix(host, ":80"):
		host = strings.TrimSuffix(host, ":80")
	case scheme == "https" && strings.HasSuffix(host, ":443"):
		host = strings.TrimSuffix(host, ":443")
	}
	if path == "" {
		path = "/"
	}
	return scheme + "://" + host + path
}

// SignatureBaseString joins the HTTP method, base string URI and
// normalized parameters. params must not contain oauth_signature or realm.
func SignatureBaseString(method, scheme, host, path string, params url.Values) string {
	return strings.ToUpper(method) + "&" +
		PercentEncode(baseStringURI(scheme, host, path)) + "&" +
		PercentEncode(normalizeParameters(params))
}
