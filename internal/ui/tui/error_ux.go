package tui

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ISmeneger/webform-e2e/internal/domain"
)

const unexpected = "Unexpected error (see logs)"

var (
	reYAMLLine = regexp.MustCompile(`(?i)\byaml: line (\d+)\b`)
	reKey      = regexp.MustCompile(`key "([^"]+)"`)
)

// backendOf names the browser backend an op belongs to, if any.
func backendOf(op string) string {
	switch {
	case strings.HasPrefix(op, "pwbackend."):
		return string(domain.BackendPlaywright)
	case strings.HasPrefix(op, "cdpbackend."):
		return string(domain.BackendChromedp)
	}
	return ""
}

// userMessage turns an error into a one-line status for the footer.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if !errors.As(err, &oe) {
		return unexpected
	}

	if oe.Op == "httpclient.probe" {
		if oe.Kind == domain.KindElementResolution {
			return "baseUrl does not serve the web form"
		}
		return "Web form unreachable (try --no-preflight offline)"
	}

	msg := ""
	switch oe.Kind {
	case domain.KindMissingConfig:
		keys := reKey.FindAllStringSubmatch(err.Error(), -1)
		if len(keys) == 0 {
			return "Missing configuration (see config show)"
		}
		names := make([]string, 0, len(keys))
		for _, k := range keys {
			names = append(names, k[1])
		}
		return "Missing configuration: " + strings.Join(names, ", ")

	case domain.KindInvalidConfig:
		where := "config"
		if oe.Path != "" {
			where = filepath.Base(oe.Path)
		}
		if m := reYAMLLine.FindStringSubmatch(err.Error()); m != nil {
			return "Invalid YAML in " + where + " at line " + m[1]
		}
		return "Invalid config in " + where

	case domain.KindNotFound:
		if strings.HasPrefix(oe.Op, "runstore.") {
			return "Run not found"
		}
		return "Not found"

	case domain.KindElementResolution:
		msg = "element not found on page"
	case domain.KindActionTimeout:
		msg = "browser action timed out"
	case domain.KindSessionClosed:
		msg = "browser session closed"
	default:
		return unexpected
	}

	if b := backendOf(oe.Op); b != "" {
		return b + ": " + msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
