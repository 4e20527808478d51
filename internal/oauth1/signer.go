package oauth1

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-authgate/oauth1gate/internal/util"
)

// Signer produces signed requests from the consumer side. The provider
// itself never calls out; it is used by tests and tooling.
type Signer struct {
	ConsumerKey    string
	ConsumerSecret string
	Token          string
	TokenSecret    string
	Method         string // defaults to HMAC-SHA1

	// Now and Nonce may be overridden for deterministic signatures.
	Now   func() time.Time
	Nonce func() (string, error)
}

// Sign adds an `Authorization: OAuth` header to req. extra carries further
// protocol parameters such as oauth_callback or oauth_verifier.
func (s Signer) Sign(req *http.Request, extra url.Values) error {
	method := s.Method
	if method == "" {
		method = MethodHMACSHA1
	}

	oauthParams := url.Values{}
	oauthParams.Set(ParamConsumerKey, s.ConsumerKey)
	oauthParams.Set(ParamSignatureMethod, method)
	oauthParams.Set(ParamVersion, "1.0")
	if s.Token != "" {
		oauthParams.Set(ParamToken, s.Token)
	}
	if method == MethodHMACSHA1 {
		now := time.Now
		if s.Now != nil {
			now = s.Now
		}
		nonceFn := func() (string, error) { return util.RandomAlphanumeric(16) }
		if s.Nonce != nil {
			nonceFn = s.Nonce
		}
		nonce, err := nonceFn()
		if err != nil {
			return fmt.Errorf("generate nonce: %w", err)
		}
		oauthParams.Set(ParamTimestamp, strconv.FormatInt(now().Unix(), 10))
		oauthParams.Set(ParamNonce, nonce)
	}
	for k, vs := range extra {
		oauthParams[k] = vs
	}

	params := url.Values{}
	for k, vs := range req.URL.Query() {
		params[k] = append(params[k], vs...)
	}
	if isFormBody(req) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
		form, err := url.ParseQuery(string(body))
		if err != nil {
			return fmt.Errorf("parse body: %w", err)
		}
		for k, vs := range form {
			params[k] = append(params[k], vs...)
		}
	}
	for k, vs := range oauthParams {
		params[k] = append(params[k], vs...)
	}

	r := &Request{
		Method:          req.Method,
		Scheme:          requestScheme(req),
		Host:            req.Host,
		Path:            req.URL.EscapedPath(),
		SignatureMethod: method,
		params:          params,
	}
	if r.Host == "" {
		r.Host = req.URL.Host
	}
	signature, err := r.sign(s.ConsumerSecret, s.TokenSecret)
	if err != nil {
		return err
	}
	oauthParams.Set(ParamSignature, signature)

	req.Header.Set("Authorization", authorizationHeader(oauthParams))
	return nil
}

func authorizationHeader(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, PercentEncode(k)+`="`+PercentEncode(params.Get(k))+`"`)
	}
	return "OAuth " + strings.Join(parts, ", ")
}
