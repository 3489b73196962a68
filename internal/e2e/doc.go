// Package e2e runs the catalog against the live practice site with real
// browsers. The tests only build with the e2e tag:
//
//	go test -tags e2e ./internal/e2e/...
package e2e
