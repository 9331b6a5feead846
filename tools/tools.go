//go:build tools

// Package tools documents development tool dependencies.
// They are run with `go run pkg@version` or installed globally, so go.mod does not track them.
package tools

// Live reload while editing templates or handlers:
//
//	go install github.com/air-verse/air@v1.63.0
//
// Port mocks under internal/mocks:
//
//	go generate ./internal/mocks   (runs go.uber.org/mock/mockgen@v0.6.0)
