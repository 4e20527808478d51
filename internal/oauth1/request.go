package oauth1

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // HMAC-SHA1 is mandated by RFC 5849
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-authgate/oauth1gate/internal/core"
	"github.com/go-authgate/oauth1gate/internal/util"
)

// Signature methods accepted by the provider.
const (
	MethodHMACSHA1  = "HMAC-SHA1"
	MethodPlaintext = "PLAINTEXT"
)

// Protocol parameter names.
const (
	ParamConsumerKey     = "oauth_consumer_key"
	ParamToken           = "oauth_token"
	ParamSignatureMethod = "oauth_signature_method"
	ParamSignature       = "oauth_signature"
	ParamTimestamp       = "oauth_timestamp"
	ParamNonce           = "oauth_nonce"
	ParamVersion         = "oauth_version"
	ParamCallback        = "oauth_callback"
	ParamVerifier        = "oauth_verifier"
)

var _ core.SignatureProof = (*Request)(nil)

// Request is a signed request with its protocol parameters extracted.
// It implements core.SignatureProof.
type Request struct {
	Method string
	Scheme string
	Host   string
	Path   string

	ConsumerKeyValue string
	Token            string
	SignatureMethod  string
	Signature        string
	Timestamp        int64
	Nonce            string
	Callback         string
	Verifier         string

	// params holds every parameter that takes part in the base string.
	params url.Values
}

// ConsumerKey returns oauth_consumer_key.
func (r *Request) ConsumerKey() string {
	return r.ConsumerKeyValue
}

// Verify reports whether the signature matches the given secrets.
func (r *Request) Verify(consumerSecret, tokenSecret string) bool {
	expected, err := r.sign(consumerSecret, tokenSecret)
	if err != nil {
		return false
	}
	return util.SecureCompare(expected, r.Signature)
}

// BaseString returns the signature base string of the request.
func (r *Request) BaseString() string {
	return SignatureBaseString(r.Method, r.Scheme, r.Host, r.Path, r.params)
}

func (r *Request) sign(consumerSecret, tokenSecret string) (string, error) {
	switch r.SignatureMethod {
	case MethodHMACSHA1:
		return hmacSHA1(r.BaseString(), consumerSecret, tokenSecret), nil
	case MethodPlaintext:
		return signingKey(consumerSecret, tokenSecret), nil
	default:
		return "", ErrUnsupportedMethod
	}
}

func signingKey(consumerSecret, tokenSecret string) string {
	return PercentEncode(consumerSecret) + "&" + PercentEncode(tokenSecret)
}

func hmacSHA1(base, consumerSecret, tokenSecret string) string {
	mac := hmac.New(sha1.New, []byte(signingKey(consumerSecret, tokenSecret)))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Parse extracts OAuth parameters from the Authorization header, a
// form-encoded body and the query string. Each protocol parameter may
// appear only once across all three.
func Parse(req *http.Request) (*Request, error) {
	params := url.Values{}
	for k, vs := range req.URL.Query() {
		params[k] = append(params[k], vs...)
	}

	if isFormBody(req) {
		if err := req.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
		}
		for k, vs := range req.PostForm {
			params[k] = append(params[k], vs...)
		}
	}

	if header := req.Header.Get("Authorization"); header != "" {
		headerParams, err := parseAuthorizationHeader(header)
		if err != nil {
			return nil, err
		}
		for k, vs := range headerParams {
			params[k] = append(params[k], vs...)
		}
	}

	r := &Request{
		Method: req.Method,
		Scheme: requestScheme(req),
		Host:   req.Host,
		Path:   req.URL.EscapedPath(),
	}

	fields := map[string]*string{
		ParamConsumerKey:     &r.ConsumerKeyValue,
		ParamToken:           &r.Token,
		ParamSignatureMethod: &r.SignatureMethod,
		ParamSignature:       &r.Signature,
		ParamNonce:           &r.Nonce,
		ParamCallback:        &r.Callback,
		ParamVerifier:        &r.Verifier,
	}
	var timestamp, version string
	fields[ParamTimestamp] = &timestamp
	fields[ParamVersion] = &version

	for name, dst := range fields {
		values := params[name]
		if len(values) > 1 {
			return nil, fmt.Errorf("%w: duplicate %s", ErrMalformedRequest, name)
		}
		if len(values) == 1 {
			*dst = values[0]
		}
	}

	for _, name := range []string{ParamConsumerKey, ParamSignatureMethod, ParamSignature} {
		if params.Get(name) == "" {
			return nil, fmt.Errorf("%w: missing %s", ErrMalformedRequest, name)
		}
	}
	if version != "" && version != "1.0" {
		return nil, fmt.Errorf("%w: unsupported oauth_version %q", ErrMalformedRequest, version)
	}
	if r.SignatureMethod != MethodHMACSHA1 && r.SignatureMethod != MethodPlaintext {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, r.SignatureMethod)
	}

	// PLAINTEXT relies on TLS and carries no timestamp or nonce.
	if r.SignatureMethod == MethodHMACSHA1 {
		if timestamp == "" || r.Nonce == "" {
			return nil, fmt.Errorf("%w: missing timestamp or nonce", ErrMalformedRequest)
		}
	}
	if timestamp != "" {
		ts, err := strconv.ParseInt(timestamp, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid oauth_timestamp", ErrMalformedRequest)
		}
		r.Timestamp = ts
	}

	params.Del(ParamSignature)
	params.Del("realm")
	r.params = params
	return r, nil
}

func isFormBody(req *http.Request) bool {
	if req.Body == nil || req.Method == http.MethodGet || req.Method == http.MethodHead {
		return false
	}
	ct, _, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	return err == nil && ct == "application/x-www-form-urlencoded"
}

func requestScheme(req *http.Request) string {
	if req.TLS != nil {
		return "https"
	}
	if proto := req.Header.Get("X-Forwarded-Proto"); proto != "" {
		return strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return "http"
}

// parseAuthorizationHeader parses `OAuth k="v", ...`. Non-OAuth schemes
// yield no parameters.
func parseAuthorizationHeader(header string) (url.Values, error) {
	const prefix = "oauth "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return url.Values{}, nil
	}

	params := url.Values{}
	for part := range strings.SplitSeq(header[len(prefix):], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%w: bad header parameter %q", ErrMalformedRequest, part)
		}
		value = strings.TrimSpace(value)
		if len(value) < 2 || value[0] != '"' || value[len(value)-1] != '"' {
			return nil, fmt.Errorf("%w: unquoted header value for %s", ErrMalformedRequest, key)
		}
		decodedKey, err := url.PathUnescape(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
		}
		decodedValue, err := url.PathUnescape(value[1 : len(value)-1])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
		}
		params.Add(decodedKey, decodedValue)
	}
	return params, nil
}
