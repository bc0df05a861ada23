package pipeline

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrInvalidBaseURL indicates the base URL for link rebasing cannot be parsed.
var ErrInvalidBaseURL = errors.New("invalid base URL")

// RebaseLinks resolves relative references in an HTML fragment against
// baseURL. If baseURL is empty, the fragment is returned unchanged.
//
// Rewrites:
//   - img[src] and audio[src]
//   - a[href], except same-page anchors
//
// Absolute URLs, protocol-relative URLs and data: URIs are left alone.
// The fragment is re-serialized by x/net/html, which normalizes attribute
// quoting and escaping.
func RebaseLinks(fragment, baseURL string) (string, error) {
	if baseURL == "" {
		return fragment, nil
	}

	base, err := parseBase(baseURL)
	if err != nil {
		return "", err
	}

	root, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}

	rebaseNode(root, base)

	var buf strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// ValidateBaseURL reports whether baseURL can be used with RebaseLinks.
// An empty baseURL is valid and disables rebasing.
func ValidateBaseURL(baseURL string) error {
	if baseURL == "" {
		return nil
	}
	_, err := parseBase(baseURL)
	return err
}

// parseBase parses baseURL as a directory: a missing trailing slash is
// added so the last path segment is kept when resolving.
func parseBase(baseURL string) (*url.URL, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Opaque != "" {
		return nil, fmt.Errorf("%w: %q is not hierarchical", ErrInvalidBaseURL, baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

// parseFragment parses content with a body context and collects the
// resulting nodes under one document node for uniform traversal.
func parseFragment(content string) (*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, err
	}

	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

func rebaseNode(n *html.Node, base *url.URL) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img, atom.Audio:
			rebaseAttr(n, "src", base)
		case atom.A:
			rebaseAttr(n, "href", base)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rebaseNode(c, base)
	}
}

func rebaseAttr(n *html.Node, key string, base *url.URL) {
	for i, attr := range n.Attr {
		if attr.Key != key || !isRelativeRef(attr.Val) {
			continue
		}
		ref, err := url.Parse(attr.Val)
		if err != nil {
			continue
		}
		n.Attr[i].Val = base.ResolveReference(ref).String()
	}
}

// isRelativeRef reports whether ref should be resolved against the base.
func isRelativeRef(ref string) bool {
	switch {
	case ref == "":
		return false
	case strings.HasPrefix(ref, "#"):
		return false
	case strings.HasPrefix(ref, "//"):
		return false
	}

	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Scheme == ""
}
