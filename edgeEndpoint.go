// SPDX-FileCopyrightText: 2024 EdgeKit, Inc.
// SPDX-License-Identifier: Apache-2.0
package main

import "strings"

// EdgeRequestType distinguishes the two upstream request flavors.
type EdgeRequestType string

const (
	EdgeRequestTypeInteract EdgeRequestType = "interact"
	EdgeRequestTypeConsent  EdgeRequestType = "consent"
)

// Edge environment names, matched case-insensitively.  Anything else,
// including the empty string, resolves to the production endpoint.
const (
	EdgeEnvironmentProd        = "prod"
	EdgeEnvironmentPreProd     = "pre-prod"
	EdgeEnvironmentIntegration = "int"
)

const (
	// DefaultEdgeDomain is the domain used when no custom domain is configured.
	DefaultEdgeDomain = "edge.adobedc.net"

	// edgeIntegrationDomain is fixed: custom domains are ignored for the
	// integration environment.
	edgeIntegrationDomain = "edge-int.adobedc.net"

	edgeProdPath        = "/ee"
	edgePreProdPath     = "/ee-pre-prd"
	edgeIntegrationPath = "/ee"

	edgeAPIVersion = "v1"
)

// EdgeEndpoint is the resolved base URL for upstream requests.  Resolution is
// pure: it never fails, falling back to production for unrecognized input.
type EdgeEndpoint struct {
	baseURL string
}

// NewEdgeEndpoint resolves an endpoint from an environment name, an optional
// custom domain, and an optional location hint.  The location hint, when
// non-empty, is inserted as a path segment immediately before the version
// segment.
func NewEdgeEndpoint(environment, customDomain, locationHint string) EdgeEndpoint {
	domain := DefaultEdgeDomain
	if customDomain != "" {
		domain = customDomain
	}

	var host, path string
	switch strings.ToLower(environment) {
	case EdgeEnvironmentPreProd:
		host, path = domain, edgePreProdPath
	case EdgeEnvironmentIntegration:
		host, path = edgeIntegrationDomain, edgeIntegrationPath
	default:
		host, path = domain, edgeProdPath
	}

	var b strings.Builder
	b.WriteString("https://")
	b.WriteString(host)
	b.WriteString(path)
	if locationHint != "" {
		b.WriteString("/")
		b.WriteString(locationHint)
	}
	b.WriteString("/")
	b.WriteString(edgeAPIVersion)

	return EdgeEndpoint{baseURL: b.String()}
}

// URL returns the resolved base URL, e.g. "https://edge.adobedc.net/ee/v1".
func (e EdgeEndpoint) URL() string {
	return e.baseURL
}

// RequestURL returns the full request URL for a request type, datastream
// config id and request id.
func (e EdgeEndpoint) RequestURL(requestType EdgeRequestType, configID, requestID string) string {
	var b strings.Builder
	b.WriteString(e.baseURL)
	b.WriteString("/")
	b.WriteString(string(requestType))
	b.WriteString("?configId=")
	b.WriteString(configID)
	b.WriteString("&requestId=")
	b.WriteString(requestID)
	return b.String()
}
