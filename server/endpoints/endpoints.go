package endpoints

import (
	"net/http"
	"net/url"
	"strings"
)

type Endpoint struct {
	URLPath     string           `json:"url_path" yaml:"url_path"`
	Methods     []string         `json:"methods" yaml:"methods"`
	HandlerFunc http.HandlerFunc `json:"-"`
	Handler     http.Handler     `json:"-"`
	PathPrefix  bool             `json:"path_prefix" yaml:"path_prefix"`
	Description string           `json:"description"`
}

func NewEndpoint(prefix string, urlPath string, handlerFunc http.HandlerFunc, methods ...string) *Endpoint {
	path, _ := url.JoinPath("/", prefix, urlPath)
	return &Endpoint{
		URLPath:     path,
		Methods:     methods,
		HandlerFunc: handlerFunc,
	}
}

// GetMethods returns the upper-cased methods, defaulting to GET.
func (e *Endpoint) GetMethods() []string {
	if len(e.Methods) == 0 {
		return []string{http.MethodGet}
	}
	methods := make([]string, 0, len(e.Methods))
	for _, m := range e.Methods {
		methods = append(methods, strings.ToUpper(m))
	}
	return methods
}
