package validator

import (
	"net/url"
	"strings"
)

// ValidateEndpointURL accepts absolute http and https URLs with a host.
func ValidateEndpointURL(target string) bool {
	target = strings.TrimSpace(target)
	if target == "" {
		return false
	}

	u, err := url.ParseRequestURI(target)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	return u.Host != ""
}

// ValidateName checks that an endpoint display name is usable as a report key
func ValidateName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	// имена попадают в имена колонок и файлов
	return !strings.ContainsAny(name, "\n\r\t")
}

// HostOf returns the host part of an endpoint URL without the port.
func HostOf(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
