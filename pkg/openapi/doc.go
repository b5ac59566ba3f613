// Package openapi builds parameter objects from OpenAPI component schemas
// using kin-openapi.
package openapi
